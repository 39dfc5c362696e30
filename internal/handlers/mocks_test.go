package handlers

import (
	"context"
	"net/http"

	"github.com/asakaida/kiban/internal/entities"
)

// Mock SchemaService
type mockSchemaService struct {
	createEntityFunc    func(ctx context.Context, entity *entities.Entity) error
	addAttributeFunc    func(ctx context.Context, entityName string, attr *entities.Attribute) error
	deleteAttributeFunc func(ctx context.Context, entityName string, attributeName string) error
	updateAttributeFunc func(ctx context.Context, entityName string, oldAttr, newAttr *entities.Attribute) error
	listEntitiesFunc    func(ctx context.Context) ([]string, error)
	describeEntityFunc  func(ctx context.Context, entityName string) (entities.Columns, error)
}

func (m *mockSchemaService) CreateEntity(ctx context.Context, entity *entities.Entity) error {
	if m.createEntityFunc != nil {
		return m.createEntityFunc(ctx, entity)
	}
	return nil
}

func (m *mockSchemaService) AddAttribute(ctx context.Context, entityName string, attr *entities.Attribute) error {
	if m.addAttributeFunc != nil {
		return m.addAttributeFunc(ctx, entityName, attr)
	}
	return nil
}

func (m *mockSchemaService) DeleteAttribute(ctx context.Context, entityName string, attributeName string) error {
	if m.deleteAttributeFunc != nil {
		return m.deleteAttributeFunc(ctx, entityName, attributeName)
	}
	return nil
}

func (m *mockSchemaService) UpdateAttribute(ctx context.Context, entityName string, oldAttr, newAttr *entities.Attribute) error {
	if m.updateAttributeFunc != nil {
		return m.updateAttributeFunc(ctx, entityName, oldAttr, newAttr)
	}
	return nil
}

func (m *mockSchemaService) ListEntities(ctx context.Context) ([]string, error) {
	if m.listEntitiesFunc != nil {
		return m.listEntitiesFunc(ctx)
	}
	return nil, nil
}

func (m *mockSchemaService) DescribeEntity(ctx context.Context, entityName string) (entities.Columns, error) {
	if m.describeEntityFunc != nil {
		return m.describeEntityFunc(ctx, entityName)
	}
	return entities.Columns{}, nil
}

// Mock EntryService
type mockEntryService struct {
	createEntryFunc func(ctx context.Context, entityName string, data map[string]interface{}) (int64, error)
	getEntriesFunc  func(ctx context.Context, entityName string) (*entities.EntryList, error)
	updateEntryFunc func(ctx context.Context, entityName string, rawID string, data map[string]interface{}) error
	deleteEntryFunc func(ctx context.Context, entityName string, rawID string) error
}

func (m *mockEntryService) CreateEntry(ctx context.Context, entityName string, data map[string]interface{}) (int64, error) {
	if m.createEntryFunc != nil {
		return m.createEntryFunc(ctx, entityName, data)
	}
	return 1, nil
}

func (m *mockEntryService) GetEntries(ctx context.Context, entityName string) (*entities.EntryList, error) {
	if m.getEntriesFunc != nil {
		return m.getEntriesFunc(ctx, entityName)
	}
	return &entities.EntryList{Entries: []entities.Entry{}, Attributes: []entities.AttributeInfo{}}, nil
}

func (m *mockEntryService) UpdateEntry(ctx context.Context, entityName string, rawID string, data map[string]interface{}) error {
	if m.updateEntryFunc != nil {
		return m.updateEntryFunc(ctx, entityName, rawID, data)
	}
	return nil
}

func (m *mockEntryService) DeleteEntry(ctx context.Context, entityName string, rawID string) error {
	if m.deleteEntryFunc != nil {
		return m.deleteEntryFunc(ctx, entityName, rawID)
	}
	return nil
}

// newTestMux wires both handlers the way the server does
func newTestMux(schema *mockSchemaService, entries *mockEntryService) *http.ServeMux {
	mux := http.NewServeMux()
	NewEntityHandler(schema, nil).RegisterRoutes(mux)
	NewEntryHandler(entries, nil).RegisterRoutes(mux)
	return mux
}
