package postgres

import (
	"database/sql"
	"testing"

	"github.com/asakaida/kiban/internal/testhelpers"
)

// SetupTestDB returns a clean, migrated database for repository tests
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testhelpers.GetTestDB(t).DB
}
