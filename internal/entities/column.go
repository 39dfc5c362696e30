package entities

// PostgreSQL information_schema data_type values the row layer cares about
const (
	DataTypeDate = "date"
)

// Column is a live column of an entity as reported by the store catalog
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"type"` // information_schema data_type, e.g. "character varying"
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// IsPrimaryKey reports whether the column is the entity's identity column
func (c *Column) IsPrimaryKey() bool {
	return c.Name == PrimaryKeyColumn
}

// IsRequired reports whether inserts must supply a value for the column
func (c *Column) IsRequired() bool {
	return !c.Nullable && !c.IsPrimaryKey()
}

// Columns is the live column set of an entity, in ordinal order
type Columns []*Column

// Get returns the column by name
func (cs Columns) Get(name string) *Column {
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Has reports whether a column with the given name exists
func (cs Columns) Has(name string) bool {
	return cs.Get(name) != nil
}

// Names returns the column names in ordinal order
func (cs Columns) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}
