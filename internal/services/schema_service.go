package services

import (
	"context"
	"fmt"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
	"go.uber.org/zap"
)

// SchemaServiceInterface defines the structural operations on entities
type SchemaServiceInterface interface {
	CreateEntity(ctx context.Context, entity *entities.Entity) error
	AddAttribute(ctx context.Context, entityName string, attr *entities.Attribute) error
	DeleteAttribute(ctx context.Context, entityName string, attributeName string) error
	UpdateAttribute(ctx context.Context, entityName string, oldAttr, newAttr *entities.Attribute) error
	ListEntities(ctx context.Context) ([]string, error)
	DescribeEntity(ctx context.Context, entityName string) (entities.Columns, error)
}

// SchemaService applies structural (DDL) changes. Every type is mapped and
// every name validated before the store is touched, so a rejected request
// never leaves partial structure behind.
type SchemaService struct {
	schemaRepo repositories.SchemaRepository
	logger     *zap.Logger
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(schemaRepo repositories.SchemaRepository, logger *zap.Logger) *SchemaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaService{
		schemaRepo: schemaRepo,
		logger:     logger,
	}
}

// CreateEntity creates the entity's table with an id column plus one column
// per attribute
func (s *SchemaService) CreateEntity(ctx context.Context, entity *entities.Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is required", entities.ErrInvalidPayload)
	}
	if err := entity.Validate(); err != nil {
		return err
	}

	columns := make([]repositories.ColumnDefinition, 0, len(entity.Attributes))
	for _, attr := range entity.Attributes {
		native, err := entities.MapType(attr.Type)
		if err != nil {
			return err
		}
		columns = append(columns, repositories.ColumnDefinition{
			Name:       attr.Name,
			NativeType: native,
			NotNull:    bool(attr.IsRequired),
		})
	}

	if err := s.schemaRepo.CreateEntity(ctx, entity.Name, columns); err != nil {
		return fmt.Errorf("failed to create entity %q: %w", entity.Name, err)
	}

	s.logger.Info("Entity created",
		zap.String("entity", entity.Name),
		zap.Int("attributes", len(columns)))
	return nil
}

// AddAttribute adds a nullable column to an existing entity
func (s *SchemaService) AddAttribute(ctx context.Context, entityName string, attr *entities.Attribute) error {
	if err := entities.ValidateEntityName(entityName); err != nil {
		return err
	}
	if attr == nil {
		return fmt.Errorf("%w: attribute is required", entities.ErrInvalidPayload)
	}

	native, err := entities.MapType(attr.Type)
	if err != nil {
		return err
	}
	if err := entities.ValidateAttributeName(attr.Name); err != nil {
		return err
	}

	columns, err := s.schemaRepo.Columns(ctx, entityName)
	if err != nil {
		return fmt.Errorf("failed to read entity %q: %w", entityName, err)
	}
	if columns.Has(attr.Name) {
		return fmt.Errorf("%w: column %q already exists in entity %q", entities.ErrAttributeAlreadyExists, attr.Name, entityName)
	}

	column := repositories.ColumnDefinition{Name: attr.Name, NativeType: native}
	if err := s.schemaRepo.AddColumn(ctx, entityName, column); err != nil {
		return fmt.Errorf("failed to add attribute %q to entity %q: %w", attr.Name, entityName, err)
	}

	s.logger.Info("Attribute added",
		zap.String("entity", entityName),
		zap.String("attribute", attr.Name),
		zap.String("type", native))
	return nil
}

// DeleteAttribute drops a column. A missing column is reported by the store.
func (s *SchemaService) DeleteAttribute(ctx context.Context, entityName string, attributeName string) error {
	if err := entities.ValidateEntityName(entityName); err != nil {
		return err
	}
	if err := entities.ValidateAttributeName(attributeName); err != nil {
		return err
	}

	if err := s.schemaRepo.DropColumn(ctx, entityName, attributeName); err != nil {
		return fmt.Errorf("failed to delete attribute %q from entity %q: %w", attributeName, entityName, err)
	}

	s.logger.Info("Attribute deleted",
		zap.String("entity", entityName),
		zap.String("attribute", attributeName))
	return nil
}

// UpdateAttribute renames and/or retypes a column atomically. Fields that did
// not change are skipped; when nothing changed no statement is issued.
func (s *SchemaService) UpdateAttribute(ctx context.Context, entityName string, oldAttr, newAttr *entities.Attribute) error {
	if err := entities.ValidateEntityName(entityName); err != nil {
		return err
	}
	if oldAttr == nil || newAttr == nil {
		return fmt.Errorf("%w: oldAttribute and newAttribute are required", entities.ErrInvalidPayload)
	}
	if err := entities.ValidateAttributeName(oldAttr.Name); err != nil {
		return err
	}
	if err := entities.ValidateAttributeName(newAttr.Name); err != nil {
		return err
	}

	change := &entities.AttributeChange{
		OldName: oldAttr.Name,
		NewName: newAttr.Name,
		NewType: newAttr.Type,
	}
	if oldAttr.Type != newAttr.Type {
		native, err := entities.MapType(newAttr.Type)
		if err != nil {
			return err
		}
		change.NativeType = native
	}

	if change.IsNoop() {
		return nil
	}

	if err := s.schemaRepo.AlterColumn(ctx, entityName, change); err != nil {
		return fmt.Errorf("failed to update attribute %q in entity %q: %w", oldAttr.Name, entityName, err)
	}

	s.logger.Info("Attribute updated",
		zap.String("entity", entityName),
		zap.String("old_name", change.OldName),
		zap.String("new_name", change.NewName),
		zap.String("new_type", change.NativeType))
	return nil
}

// ListEntities returns the names of all managed entities
func (s *SchemaService) ListEntities(ctx context.Context) ([]string, error) {
	names, err := s.schemaRepo.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return names, nil
}

// DescribeEntity returns the live column set of an entity
func (s *SchemaService) DescribeEntity(ctx context.Context, entityName string) (entities.Columns, error) {
	if err := entities.ValidateEntityName(entityName); err != nil {
		return nil, err
	}

	columns, err := s.schemaRepo.Columns(ctx, entityName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe entity %q: %w", entityName, err)
	}
	return columns, nil
}
