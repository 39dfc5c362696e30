package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
)

// PostgresEntryRepository implements EntryRepository using PostgreSQL
type PostgresEntryRepository struct {
	db *sql.DB
}

// NewPostgresEntryRepository creates a new PostgreSQL entry repository
func NewPostgresEntryRepository(db *sql.DB) repositories.EntryRepository {
	return &PostgresEntryRepository{db: db}
}

// Insert writes a row and returns the id assigned by the identity column
func (r *PostgresEntryRepository) Insert(ctx context.Context, entityName string, values map[string]interface{}) (int64, error) {
	fields, args, err := splitValues(values)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, insertStatement(entityName, fields), args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", translateError(err))
	}
	return id, nil
}

// List returns every row of an entity ordered by id. Values are returned as
// the driver decodes them; []byte is converted to string.
func (r *PostgresEntryRepository) List(ctx context.Context, entityName string, columns entities.Columns) ([]entities.Entry, error) {
	names := columns.Names()
	rows, err := r.db.QueryContext(ctx, selectAllStatement(entityName, names))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", translateError(err))
	}
	defer rows.Close()

	entries := []entities.Entry{}
	for rows.Next() {
		values := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		entry := make(entities.Entry, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				entry[name] = string(b)
				continue
			}
			entry[name] = values[i]
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

// Update sets the given fields on one row
func (r *PostgresEntryRepository) Update(ctx context.Context, entityName string, id int64, values map[string]interface{}) (int64, error) {
	fields, args, err := splitValues(values)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, updateStatement(entityName, fields), append(args, id)...)
	if err != nil {
		return 0, fmt.Errorf("failed to update entry: %w", translateError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Delete removes one row
func (r *PostgresEntryRepository) Delete(ctx context.Context, entityName string, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, deleteStatement(entityName), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entry: %w", translateError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// splitValues returns the field names (sorted, "id" excluded) and their
// values in the same order
func splitValues(values map[string]interface{}) ([]string, []interface{}, error) {
	fields, err := entities.WritableFields(values)
	if err != nil {
		return nil, nil, err
	}
	args := make([]interface{}, len(fields))
	for i, f := range fields {
		args[i] = values[f]
	}
	return fields, args, nil
}
