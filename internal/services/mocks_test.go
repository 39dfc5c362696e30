package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
)

// Mock SchemaRepository keeping tables in memory
type mockSchemaRepository struct {
	mu     sync.Mutex
	tables map[string]entities.Columns
	calls  []string

	// Optional error overrides
	createErr error
	alterErr  error
	dropErr   error
}

func newMockSchemaRepository() *mockSchemaRepository {
	return &mockSchemaRepository{
		tables: make(map[string]entities.Columns),
	}
}

func (m *mockSchemaRepository) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockSchemaRepository) CreateEntity(ctx context.Context, name string, columns []repositories.ColumnDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateEntity")
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.tables[name]; exists {
		return fmt.Errorf("%w: %q", entities.ErrEntityAlreadyExists, name)
	}
	cols := entities.Columns{{Name: entities.PrimaryKeyColumn, DataType: "bigint", Position: 1}}
	for i, c := range columns {
		cols = append(cols, &entities.Column{
			Name:     c.Name,
			DataType: nativeToDataType(c.NativeType),
			Nullable: !c.NotNull,
			Position: i + 2,
		})
	}
	m.tables[name] = cols
	return nil
}

func (m *mockSchemaRepository) ListEntities(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockSchemaRepository) Columns(ctx context.Context, entityName string) (entities.Columns, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cols, exists := m.tables[entityName]
	if !exists {
		return nil, fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}
	return append(entities.Columns(nil), cols...), nil
}

func (m *mockSchemaRepository) AddColumn(ctx context.Context, entityName string, column repositories.ColumnDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AddColumn")
	cols, exists := m.tables[entityName]
	if !exists {
		return fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}
	m.tables[entityName] = append(cols, &entities.Column{
		Name:     column.Name,
		DataType: nativeToDataType(column.NativeType),
		Nullable: true,
		Position: len(cols) + 1,
	})
	return nil
}

func (m *mockSchemaRepository) DropColumn(ctx context.Context, entityName string, columnName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DropColumn")
	if m.dropErr != nil {
		return m.dropErr
	}
	cols, exists := m.tables[entityName]
	if !exists {
		return fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}
	for i, c := range cols {
		if c.Name == columnName {
			m.tables[entityName] = append(cols[:i:i], cols[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", entities.ErrAttributeNotFound, columnName)
}

func (m *mockSchemaRepository) AlterColumn(ctx context.Context, entityName string, change *entities.AttributeChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AlterColumn")
	if m.alterErr != nil {
		return m.alterErr
	}
	cols, exists := m.tables[entityName]
	if !exists {
		return fmt.Errorf("%w: %q", entities.ErrEntityNotFound, entityName)
	}
	col := cols.Get(change.OldName)
	if col == nil {
		return fmt.Errorf("%w: %q", entities.ErrAttributeNotFound, change.OldName)
	}
	if change.Renames() {
		if cols.Has(change.NewName) {
			return fmt.Errorf("%w: %q", entities.ErrAttributeAlreadyExists, change.NewName)
		}
		col.Name = change.NewName
	}
	if change.Retypes() {
		col.DataType = nativeToDataType(change.NativeType)
	}
	return nil
}

func nativeToDataType(native string) string {
	switch native {
	case "VARCHAR":
		return "character varying"
	case "BIGINT":
		return "bigint"
	case "DATE":
		return "date"
	case "INT", "SERIAL":
		return "integer"
	}
	return native
}

// Mock EntryRepository
type mockEntryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string][]entities.Entry

	inserted []map[string]interface{}
	updates  int
	deletes  int

	listErr error
}

func newMockEntryRepository() *mockEntryRepository {
	return &mockEntryRepository{
		rows: make(map[string][]entities.Entry),
	}
}

func (m *mockEntryRepository) Insert(ctx context.Context, entityName string, values map[string]interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	row := entities.Entry{entities.PrimaryKeyColumn: m.nextID}
	for k, v := range values {
		row[k] = v
	}
	m.rows[entityName] = append(m.rows[entityName], row)
	m.inserted = append(m.inserted, values)
	return m.nextID, nil
}

func (m *mockEntryRepository) List(ctx context.Context, entityName string, columns entities.Columns) ([]entities.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]entities.Entry, 0, len(m.rows[entityName]))
	for _, row := range m.rows[entityName] {
		copied := make(entities.Entry, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out = append(out, copied)
	}
	return out, nil
}

func (m *mockEntryRepository) Update(ctx context.Context, entityName string, id int64, values map[string]interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	for _, row := range m.rows[entityName] {
		if row[entities.PrimaryKeyColumn] == id {
			for k, v := range values {
				row[k] = v
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockEntryRepository) Delete(ctx context.Context, entityName string, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	rows := m.rows[entityName]
	for i, row := range rows {
		if row[entities.PrimaryKeyColumn] == id {
			m.rows[entityName] = append(rows[:i:i], rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
