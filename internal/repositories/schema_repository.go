package repositories

import (
	"context"

	"github.com/asakaida/kiban/internal/entities"
)

// ColumnDefinition is a column to create, with its type already mapped to
// the store's native type
type ColumnDefinition struct {
	Name       string
	NativeType string
	NotNull    bool
}

// SchemaRepository defines the structural (DDL) and catalog operations
type SchemaRepository interface {
	// CreateEntity registers the entity and creates its table with an identity
	// "id" column plus the given columns, all or nothing
	CreateEntity(ctx context.Context, name string, columns []ColumnDefinition) error

	// ListEntities returns the names of all managed entities, sorted
	ListEntities(ctx context.Context) ([]string, error)

	// Columns reads the live column set of a managed entity in ordinal order.
	// Returns entities.ErrEntityNotFound when the entity is not managed.
	Columns(ctx context.Context, entityName string) (entities.Columns, error)

	// AddColumn adds a nullable column to a managed entity
	AddColumn(ctx context.Context, entityName string, column ColumnDefinition) error

	// DropColumn drops a column from a managed entity
	DropColumn(ctx context.Context, entityName string, columnName string) error

	// AlterColumn renames and/or retypes a column in a single transaction
	AlterColumn(ctx context.Context, entityName string, change *entities.AttributeChange) error
}
