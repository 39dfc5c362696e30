package postgres

import (
	"fmt"
	"strings"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
	"github.com/lib/pq"
)

// Identifiers are validated by the service layer and quoted again here, so a
// name can never break out of its identifier position.
func quote(name string) string {
	return pq.QuoteIdentifier(name)
}

func createTableStatement(name string, columns []repositories.ColumnDefinition) string {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, fmt.Sprintf("%s BIGSERIAL PRIMARY KEY", quote(entities.PrimaryKeyColumn)))
	for _, c := range columns {
		def := fmt.Sprintf("%s %s", quote(c.Name), c.NativeType)
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))
}

func addColumnStatement(entityName string, column repositories.ColumnDefinition) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quote(entityName), quote(column.Name), column.NativeType)
}

func dropColumnStatement(entityName, columnName string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quote(entityName), quote(columnName))
}

func renameColumnStatement(entityName, oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quote(entityName), quote(oldName), quote(newName))
}

// The USING clause lets PostgreSQL convert existing values, e.g. VARCHAR -> INT.
func alterColumnTypeStatement(entityName, columnName, nativeType string) string {
	col := quote(columnName)
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s", quote(entityName), col, nativeType, col, nativeType)
}

func insertStatement(entityName string, fields []string) string {
	if len(fields) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", quote(entityName), quote(entities.PrimaryKeyColumn))
	}
	cols := make([]string, len(fields))
	params := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quote(f)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quote(entityName), strings.Join(cols, ", "), strings.Join(params, ", "), quote(entities.PrimaryKeyColumn))
}

func selectAllStatement(entityName string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quote(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(cols, ", "), quote(entityName), quote(entities.PrimaryKeyColumn))
}

// updateStatement binds the fields as $1..$n and the id as $n+1
func updateStatement(entityName string, fields []string) string {
	sets := make([]string, len(fields))
	for i, f := range fields {
		sets[i] = fmt.Sprintf("%s = $%d", quote(f), i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		quote(entityName), strings.Join(sets, ", "), quote(entities.PrimaryKeyColumn), len(fields)+1)
}

func deleteStatement(entityName string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", quote(entityName), quote(entities.PrimaryKeyColumn))
}
