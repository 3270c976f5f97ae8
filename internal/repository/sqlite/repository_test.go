package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planerly/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "planerly.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	fixed := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	require.NoError(t, repo.Put(ctx, "planerly", []byte(`{"projects":[]}`)))

	value, err := repo.Get(ctx, "planerly")
	require.NoError(t, err)
	assert.Equal(t, `{"projects":[]}`, string(value))

	entry, err := repo.GetEntry(ctx, "planerly")
	require.NoError(t, err)
	assert.Equal(t, "planerly", entry.Key)
	assert.True(t, fixed.Equal(entry.UpdatedAt))
}

func TestSQLiteRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	require.NoError(t, repo.Put(ctx, "k", []byte("first")))
	require.NoError(t, repo.Put(ctx, "k", []byte("second")))

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(value))
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	require.NoError(t, repo.Put(ctx, "k", []byte("v")))
	require.NoError(t, repo.Delete(ctx, "k"))
	require.NoError(t, repo.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, err := repo.Get(ctx, "k")
	assert.True(t, errors.IsNotFound(err))
}

func TestSQLiteRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "planerly.db")

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, "k", []byte("kept")))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(value))
}

func TestSQLiteRepository_InMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := New(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Put(ctx, "k", []byte("v")))
	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}
