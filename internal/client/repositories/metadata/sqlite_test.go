package metadata

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/pinvault/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// backends runs fn once per Repository implementation.
func backends(t *testing.T, fn func(t *testing.T, r Repository)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, NewSQLiteRepository(setupDB(t)))
	})
	t.Run("file", func(t *testing.T) {
		fn(t, NewFileRepository(t.TempDir()))
	})
}

func TestRepository_SetGet(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		ctx := context.Background()

		require.NoError(t, r.Set(ctx, "auth-storage", []byte(`{"a":1}`)))

		v, err := r.Get(ctx, "auth-storage")
		require.NoError(t, err)
		require.Equal(t, `{"a":1}`, string(v))
	})
}

func TestRepository_GetMissingReturnsNilNil(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		v, err := r.Get(context.Background(), "absent")
		require.NoError(t, err)
		require.Nil(t, v)
	})
}

func TestRepository_SetOverwrites(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		require.NoError(t, r.Set(ctx, "k", []byte("old")))
		require.NoError(t, r.Set(ctx, "k", []byte("new")))

		v, err := r.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "new", string(v))
	})
}

func TestRepository_Delete(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
		require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

		require.NoError(t, r.Delete(ctx, "a"))
		require.NoError(t, r.Delete(ctx, "a"), "delete must be idempotent")

		v, err := r.Get(ctx, "a")
		require.NoError(t, err)
		require.Nil(t, v)

		v, err = r.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xBB, 0xCC}, v)
	})
}

func TestRepository_UpdateReadModifyWrite(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		ctx := context.Background()

		err := r.Update(ctx, "counter", func(cur []byte) ([]byte, error) {
			require.Nil(t, cur)
			return []byte("1"), nil
		})
		require.NoError(t, err)

		err = r.Update(ctx, "counter", func(cur []byte) ([]byte, error) {
			require.Equal(t, "1", string(cur))
			return []byte("2"), nil
		})
		require.NoError(t, err)

		v, err := r.Get(ctx, "counter")
		require.NoError(t, err)
		require.Equal(t, "2", string(v))
	})
}

func TestRepository_UpdateAbortKeepsValue(t *testing.T) {
	backends(t, func(t *testing.T, r Repository) {
		ctx := context.Background()
		require.NoError(t, r.Set(ctx, "k", []byte("keep")))

		refuse := errors.New("refuse")
		err := r.Update(ctx, "k", func(cur []byte) ([]byte, error) {
			return nil, refuse
		})
		require.ErrorIs(t, err, refuse)

		v, err := r.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "keep", string(v))
	})
}

func TestSQLiteRepository_ClosedDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k]")

	err = r.Update(ctx, "k", func(cur []byte) ([]byte, error) { return cur, nil })
	require.Error(t, err)
}
