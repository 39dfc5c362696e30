package postgres

import (
	"testing"

	"github.com/asakaida/kiban/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func TestCreateTableStatement(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		columns []repositories.ColumnDefinition
		want    string
	}{
		{
			name:   "no attributes",
			entity: "tag",
			want:   `CREATE TABLE "tag" ("id" BIGSERIAL PRIMARY KEY)`,
		},
		{
			name:   "required and optional",
			entity: "person",
			columns: []repositories.ColumnDefinition{
				{Name: "name", NativeType: "VARCHAR", NotNull: true},
				{Name: "born", NativeType: "DATE"},
			},
			want: `CREATE TABLE "person" ("id" BIGSERIAL PRIMARY KEY, "name" VARCHAR NOT NULL, "born" DATE)`,
		},
		{
			name:   "mixed case is preserved",
			entity: "BlogPost",
			columns: []repositories.ColumnDefinition{
				{Name: "Title", NativeType: "VARCHAR"},
			},
			want: `CREATE TABLE "BlogPost" ("id" BIGSERIAL PRIMARY KEY, "Title" VARCHAR)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, createTableStatement(tt.entity, tt.columns))
		})
	}
}

func TestAlterStatements(t *testing.T) {
	assert.Equal(t, `ALTER TABLE "person" ADD COLUMN "age" INT`,
		addColumnStatement("person", repositories.ColumnDefinition{Name: "age", NativeType: "INT"}))
	assert.Equal(t, `ALTER TABLE "person" DROP COLUMN "age"`,
		dropColumnStatement("person", "age"))
	assert.Equal(t, `ALTER TABLE "person" RENAME COLUMN "born" TO "birthday"`,
		renameColumnStatement("person", "born", "birthday"))
	assert.Equal(t, `ALTER TABLE "person" ALTER COLUMN "age" TYPE BIGINT USING "age"::BIGINT`,
		alterColumnTypeStatement("person", "age", "BIGINT"))
}

func TestRowStatements(t *testing.T) {
	assert.Equal(t, `INSERT INTO "person" ("born", "name") VALUES ($1, $2) RETURNING "id"`,
		insertStatement("person", []string{"born", "name"}))
	assert.Equal(t, `INSERT INTO "person" DEFAULT VALUES RETURNING "id"`,
		insertStatement("person", nil))
	assert.Equal(t, `SELECT "id", "name" FROM "person" ORDER BY "id"`,
		selectAllStatement("person", []string{"id", "name"}))
	assert.Equal(t, `UPDATE "person" SET "born" = $1, "name" = $2 WHERE "id" = $3`,
		updateStatement("person", []string{"born", "name"}))
	assert.Equal(t, `DELETE FROM "person" WHERE "id" = $1`,
		deleteStatement("person"))
}

func TestQuote_EscapesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, `"a""b"`, quote(`a"b`))
}
