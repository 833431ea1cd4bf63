package history

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
}

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.UnixMilli(1700000000000)

	entries := []Entry{
		{ID: "1", Source: "hello", Translation: "你好", Target: "zh", Mode: "text", CreatedAt: base},
		{ID: "2", Source: "world", Translation: "世界", Target: "zh", Mode: "image", CreatedAt: base.Add(time.Second)},
		{ID: "3", Source: "猫", Translation: "cat", Target: "en", Mode: "text", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "3", recent[0].ID)
	assert.Equal(t, "2", recent[1].ID)
	assert.Equal(t, "cat", recent[0].Translation)
	assert.Equal(t, "en", recent[0].Target)
	assert.Equal(t, "image", recent[1].Mode)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(2*time.Second)))
}

func TestRecent_Empty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRecord_DuplicateID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	e := Entry{ID: "same", Source: "a", Translation: "b", Target: "zh", Mode: "text", CreatedAt: time.Now()}
	require.NoError(t, store.Record(context.Background(), e))
	assert.Error(t, store.Record(context.Background(), e))
}

func TestRecord_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO translations")).
		WithArgs("id", "src", "dst", "en", "text", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	store := NewStore(db)
	err = store.Record(context.Background(), Entry{
		ID: "id", Source: "src", Translation: "dst", Target: "en", Mode: "text", CreatedAt: time.Now(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record translation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, source")).
		WithArgs(5).
		WillReturnError(errors.New("database is locked"))

	_, err = NewStore(db).Recent(context.Background(), 5)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInit_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS translations")).
		WillReturnError(errors.New("read-only database"))

	err = NewStore(db).Init(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
