package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileRepository_RejectsUnsafeKeys(t *testing.T) {
	r := NewFileRepository(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		require.ErrorIs(t, r.Set(ctx, key, []byte("x")), ErrInvalidKey, "key %q", key)
		_, err := r.Get(ctx, key)
		require.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestFileRepository_IgnoresTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRepository(dir)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "vaultFiles", []byte("[]")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".vaultFiles.tmp-123"), []byte("[{"), 0o600))

	v, err := r.Get(ctx, "vaultFiles")
	require.NoError(t, err)
	require.Equal(t, "[]", string(v))
}

func TestFileRepository_MissingDir(t *testing.T) {
	r := NewFileRepository(filepath.Join(t.TempDir(), "nope"))
	ctx := context.Background()

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)

	require.Error(t, r.Set(ctx, "k", []byte("v")))
}
