package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personColumns = []repositories.ColumnDefinition{
	{Name: "name", NativeType: "VARCHAR", NotNull: true},
	{Name: "born", NativeType: "DATE"},
}

func TestSchemaRepository_CreateEntity(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateEntity(ctx, "person", personColumns))

	cols, err := repo.Columns(ctx, "person")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "born"}, cols.Names())
	assert.Equal(t, "bigint", cols.Get("id").DataType)
	assert.Equal(t, "character varying", cols.Get("name").DataType)
	assert.False(t, cols.Get("name").Nullable)
	assert.True(t, cols.Get("born").Nullable)
	assert.Equal(t, entities.DataTypeDate, cols.Get("born").DataType)

	names, err := repo.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"person"}, names)
}

func TestSchemaRepository_CreateEntity_Duplicate(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateEntity(ctx, "person", personColumns))

	err := repo.CreateEntity(ctx, "person", nil)
	assert.ErrorIs(t, err, entities.ErrEntityAlreadyExists)

	// The first definition is untouched
	cols, err := repo.Columns(ctx, "person")
	require.NoError(t, err)
	assert.Len(t, cols, 3)
}

func TestSchemaRepository_CreateEntity_ExistingUnmanagedTable(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE unmanaged (x INT)`)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(`DROP TABLE IF EXISTS unmanaged`) })

	err = repo.CreateEntity(ctx, "unmanaged", nil)
	assert.ErrorIs(t, err, entities.ErrEntityAlreadyExists)

	// The catalog insert was rolled back with the failed CREATE TABLE
	names, err := repo.ListEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = repo.Columns(ctx, "unmanaged")
	assert.ErrorIs(t, err, entities.ErrEntityNotFound)
}

func TestSchemaRepository_CreateEntity_Concurrent(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()

	const n = 5
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateEntity(ctx, "race", personColumns)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entities.ErrEntityAlreadyExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSchemaRepository_Columns_NotManaged(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)

	_, err := repo.Columns(context.Background(), "ghost")
	assert.ErrorIs(t, err, entities.ErrEntityNotFound)

	// Internal tables are never exposed as entities
	_, err = repo.Columns(context.Background(), "schema_migrations")
	assert.ErrorIs(t, err, entities.ErrEntityNotFound)
}

func TestSchemaRepository_AddAndDropColumn(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.CreateEntity(ctx, "person", personColumns))

	require.NoError(t, repo.AddColumn(ctx, "person", repositories.ColumnDefinition{Name: "age", NativeType: "INT"}))

	err := repo.AddColumn(ctx, "person", repositories.ColumnDefinition{Name: "age", NativeType: "INT"})
	assert.ErrorIs(t, err, entities.ErrAttributeAlreadyExists)

	cols, err := repo.Columns(ctx, "person")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "born", "age"}, cols.Names())
	assert.True(t, cols.Get("age").Nullable)

	require.NoError(t, repo.DropColumn(ctx, "person", "age"))

	err = repo.DropColumn(ctx, "person", "age")
	assert.ErrorIs(t, err, entities.ErrAttributeNotFound)

	err = repo.AddColumn(ctx, "ghost", repositories.ColumnDefinition{Name: "age", NativeType: "INT"})
	assert.ErrorIs(t, err, entities.ErrEntityNotFound)
}

func TestSchemaRepository_AlterColumn(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.CreateEntity(ctx, "person", personColumns))

	// Rename and retype together
	err := repo.AlterColumn(ctx, "person", &entities.AttributeChange{
		OldName:    "born",
		NewName:    "birthday",
		NewType:    entities.TypeText,
		NativeType: "VARCHAR",
	})
	require.NoError(t, err)

	cols, err := repo.Columns(ctx, "person")
	require.NoError(t, err)
	assert.False(t, cols.Has("born"))
	require.True(t, cols.Has("birthday"))
	assert.Equal(t, "character varying", cols.Get("birthday").DataType)

	err = repo.AlterColumn(ctx, "person", &entities.AttributeChange{OldName: "ghost", NewName: "spirit"})
	assert.ErrorIs(t, err, entities.ErrAttributeNotFound)
}

func TestSchemaRepository_AlterColumn_IsAtomic(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPostgresSchemaRepository(db)
	entryRepo := NewPostgresEntryRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.CreateEntity(ctx, "person", personColumns))

	_, err := entryRepo.Insert(ctx, "person", map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)

	// "Ada" cannot be cast to INT, so the rename must be rolled back too
	err = repo.AlterColumn(ctx, "person", &entities.AttributeChange{
		OldName:    "name",
		NewName:    "label",
		NewType:    entities.TypeInt,
		NativeType: "INT",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidPayload)

	cols, err := repo.Columns(ctx, "person")
	require.NoError(t, err)
	assert.True(t, cols.Has("name"))
	assert.False(t, cols.Has("label"))
	assert.Equal(t, "character varying", cols.Get("name").DataType)
}
