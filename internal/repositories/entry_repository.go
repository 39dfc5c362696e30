package repositories

import (
	"context"

	"github.com/asakaida/kiban/internal/entities"
)

// EntryRepository defines the row-level (DML) operations on entity tables.
// Field names passed in must already be validated identifiers.
type EntryRepository interface {
	// Insert writes a row and returns the store-assigned id
	Insert(ctx context.Context, entityName string, values map[string]interface{}) (int64, error)

	// List returns every row of an entity ordered by id
	List(ctx context.Context, entityName string, columns entities.Columns) ([]entities.Entry, error)

	// Update sets the given fields on the row with the given id and returns
	// the number of rows affected
	Update(ctx context.Context, entityName string, id int64, values map[string]interface{}) (int64, error)

	// Delete removes the row with the given id and returns the number of rows
	// affected
	Delete(ctx context.Context, entityName string, id int64) (int64, error)
}
