package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
	"go.uber.org/zap"
)

// DateLayout is how values of date columns are rendered (DD-MM-YYYY).
// Writes to date columns accept it as well as ISO dates.
const DateLayout = "02-01-2006"

const isoDateLayout = "2006-01-02"

// EntryServiceInterface defines the row operations on entities
type EntryServiceInterface interface {
	CreateEntry(ctx context.Context, entityName string, data map[string]interface{}) (int64, error)
	GetEntries(ctx context.Context, entityName string) (*entities.EntryList, error)
	UpdateEntry(ctx context.Context, entityName string, rawID string, data map[string]interface{}) error
	DeleteEntry(ctx context.Context, entityName string, rawID string) error
}

// EntryService performs schema-aware CRUD on entity rows. The live column set
// is read from the store on every call.
type EntryService struct {
	schemaRepo repositories.SchemaRepository
	entryRepo  repositories.EntryRepository
	logger     *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(
	schemaRepo repositories.SchemaRepository,
	entryRepo repositories.EntryRepository,
	logger *zap.Logger,
) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{
		schemaRepo: schemaRepo,
		entryRepo:  entryRepo,
		logger:     logger,
	}
}

// CreateEntry inserts a row and returns its store-assigned id.
// Every NOT NULL column other than id must be present, non-null and non-empty;
// all missing fields are reported together.
func (s *EntryService) CreateEntry(ctx context.Context, entityName string, data map[string]interface{}) (int64, error) {
	columns, err := s.columns(ctx, entityName)
	if err != nil {
		return 0, err
	}

	var missing []string
	for _, col := range columns {
		if !col.IsRequired() {
			continue
		}
		v, ok := data[col.Name]
		if entities.IsEmptyValue(v, ok) {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return 0, &entities.RequiredFieldError{Fields: missing}
	}

	values, err := normalizeValues(data, columns)
	if err != nil {
		return 0, err
	}

	id, err := s.entryRepo.Insert(ctx, entityName, values)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry in %q: %w", entityName, err)
	}

	s.logger.Debug("Entry created", zap.String("entity", entityName), zap.Int64("id", id))
	return id, nil
}

// GetEntries returns every row of the entity ordered by id, with date values
// rendered as DD-MM-YYYY, plus the entity's column names and types.
func (s *EntryService) GetEntries(ctx context.Context, entityName string) (*entities.EntryList, error) {
	columns, err := s.columns(ctx, entityName)
	if err != nil {
		return nil, err
	}

	rows, err := s.entryRepo.List(ctx, entityName, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries of %q: %w", entityName, err)
	}

	dateColumns := make(map[string]bool)
	attributes := make([]entities.AttributeInfo, 0, len(columns))
	for _, col := range columns {
		attributes = append(attributes, entities.AttributeInfo{Name: col.Name, Type: col.DataType})
		if col.DataType == entities.DataTypeDate {
			dateColumns[col.Name] = true
		}
	}

	for _, row := range rows {
		for name := range dateColumns {
			if t, ok := row[name].(time.Time); ok {
				row[name] = t.Format(DateLayout)
			}
		}
	}

	return &entities.EntryList{
		Entries:    rows,
		Attributes: attributes,
	}, nil
}

// UpdateEntry sets the given fields on one row. An id key in data is ignored,
// empty data is a no-op and an id that matches no row is not an error.
func (s *EntryService) UpdateEntry(ctx context.Context, entityName string, rawID string, data map[string]interface{}) error {
	id, err := entities.ParseEntryID(rawID)
	if err != nil {
		return err
	}
	columns, err := s.columns(ctx, entityName)
	if err != nil {
		return err
	}

	values, err := normalizeValues(data, columns)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	affected, err := s.entryRepo.Update(ctx, entityName, id, values)
	if err != nil {
		return fmt.Errorf("failed to update entry %d in %q: %w", id, entityName, err)
	}

	s.logger.Debug("Entry updated",
		zap.String("entity", entityName),
		zap.Int64("id", id),
		zap.Int64("rows_affected", affected))
	return nil
}

// DeleteEntry removes one row. An id that matches no row is not an error.
func (s *EntryService) DeleteEntry(ctx context.Context, entityName string, rawID string) error {
	id, err := entities.ParseEntryID(rawID)
	if err != nil {
		return err
	}
	if _, err := s.columns(ctx, entityName); err != nil {
		return err
	}

	affected, err := s.entryRepo.Delete(ctx, entityName, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %d from %q: %w", id, entityName, err)
	}

	s.logger.Debug("Entry deleted",
		zap.String("entity", entityName),
		zap.Int64("id", id),
		zap.Int64("rows_affected", affected))
	return nil
}

func (s *EntryService) columns(ctx context.Context, entityName string) (entities.Columns, error) {
	if err := entities.ValidateEntityName(entityName); err != nil {
		return nil, err
	}
	columns, err := s.schemaRepo.Columns(ctx, entityName)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %q: %w", entityName, err)
	}
	return columns, nil
}

// normalizeValues drops the id key, validates field names and converts JSON
// values to driver-friendly scalars. Nested objects and arrays are rejected.
// DD-MM-YYYY strings bound for date columns are rewritten as ISO dates so the
// store does not depend on its DateStyle setting.
func normalizeValues(data map[string]interface{}, columns entities.Columns) (map[string]interface{}, error) {
	fields, err := entities.WritableFields(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		switch v := data[f].(type) {
		case string:
			values[f] = v
			if col := columns.Get(f); col != nil && col.DataType == entities.DataTypeDate {
				if t, err := time.Parse(DateLayout, v); err == nil {
					values[f] = t.Format(isoDateLayout)
				}
			}
		case nil, bool, float64, int, int64:
			values[f] = v
		case json.Number:
			values[f] = v.String()
		default:
			return nil, fmt.Errorf("%w: field %q must be a scalar value", entities.ErrInvalidPayload, f)
		}
	}
	return values, nil
}
