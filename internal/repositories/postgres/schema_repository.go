package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
)

// managedEntitiesTable records every entity created through this service.
// It is created by the migrations in internal/infrastructure/database.
const managedEntitiesTable = "managed_entities"

// PostgresSchemaRepository implements SchemaRepository using PostgreSQL.
// PostgreSQL DDL is transactional, so multi-step changes run in one
// transaction.
type PostgresSchemaRepository struct {
	db *sql.DB
}

// NewPostgresSchemaRepository creates a new PostgreSQL schema repository
func NewPostgresSchemaRepository(db *sql.DB) repositories.SchemaRepository {
	return &PostgresSchemaRepository{db: db}
}

// CreateEntity registers the entity and creates its table
func (r *PostgresSchemaRepository) CreateEntity(ctx context.Context, name string, columns []repositories.ColumnDefinition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO managed_entities (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("failed to register entity: %w", translateError(err))
	}

	if _, err := tx.ExecContext(ctx, createTableStatement(name, columns)); err != nil {
		return fmt.Errorf("failed to create table: %w", translateError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return nil
}

// ListEntities returns the names of all managed entities
func (r *PostgresSchemaRepository) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM managed_entities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", translateError(err))
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}
	return names, nil
}

const columnsQuery = `
	SELECT c.column_name, c.data_type, c.is_nullable = 'YES', c.ordinal_position
	FROM managed_entities m
	JOIN information_schema.columns c
		ON c.table_name = m.name AND c.table_schema = current_schema()
	WHERE m.name = $1
	ORDER BY c.ordinal_position
`

// Columns reads the live column set of a managed entity
func (r *PostgresSchemaRepository) Columns(ctx context.Context, entityName string) (entities.Columns, error) {
	return queryColumns(ctx, r.db, entityName)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryColumns(ctx context.Context, q queryer, entityName string) (entities.Columns, error) {
	rows, err := q.QueryContext(ctx, columnsQuery, entityName)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", translateError(err))
	}
	defer rows.Close()

	var columns entities.Columns
	for rows.Next() {
		col := &entities.Column{}
		if err := rows.Scan(&col.Name, &col.DataType, &col.Nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	// A managed entity always has at least its id column
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}
	return columns, nil
}

// AddColumn adds a nullable column to a managed entity
func (r *PostgresSchemaRepository) AddColumn(ctx context.Context, entityName string, column repositories.ColumnDefinition) error {
	return r.withManagedEntity(ctx, entityName, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, addColumnStatement(entityName, column)); err != nil {
			return fmt.Errorf("failed to add column: %w", translateError(err))
		}
		return nil
	})
}

// DropColumn drops a column from a managed entity
func (r *PostgresSchemaRepository) DropColumn(ctx context.Context, entityName string, columnName string) error {
	return r.withManagedEntity(ctx, entityName, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, dropColumnStatement(entityName, columnName)); err != nil {
			return fmt.Errorf("failed to drop column: %w", translateError(err))
		}
		return nil
	})
}

// AlterColumn renames and/or retypes a column. The retype addresses the
// column by its new name, so both steps see one consistent column.
func (r *PostgresSchemaRepository) AlterColumn(ctx context.Context, entityName string, change *entities.AttributeChange) error {
	return r.withManagedEntity(ctx, entityName, func(tx *sql.Tx) error {
		if change.Renames() {
			if _, err := tx.ExecContext(ctx, renameColumnStatement(entityName, change.OldName, change.NewName)); err != nil {
				return fmt.Errorf("failed to rename column: %w", translateError(err))
			}
		}

		if change.Retypes() {
			if _, err := tx.ExecContext(ctx, alterColumnTypeStatement(entityName, change.NewName, change.NativeType)); err != nil {
				return fmt.Errorf("failed to alter column type: %w", translateError(err))
			}
		}
		return nil
	})
}

// withManagedEntity runs fn in a transaction after checking that the entity
// is managed by this service
func (r *PostgresSchemaRepository) withManagedEntity(ctx context.Context, entityName string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM managed_entities WHERE name = $1)`, entityName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up entity: %w", translateError(err))
	}
	if !exists {
		return fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return nil
}
