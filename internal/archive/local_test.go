package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchive(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	a, err := NewLocalArchive(base)
	require.NoError(t, err)

	content := []byte("ID;Empresa\nP-1;Acme\n")
	key := ImportKey("abc", "csv", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "imports/2024/03/abc.csv", key)

	meta := &Metadata{ContentType: "text/csv", OriginalName: "export.csv", Source: "upload", Username: "ana"}
	require.NoError(t, a.Put(ctx, key, content, meta))
	assert.Equal(t, Checksum(content), meta.Checksum)

	t.Run("get", func(t *testing.T) {
		got, err := a.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("info", func(t *testing.T) {
		info, err := a.GetInfo(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.Equal(t, Checksum(content), info.Checksum)
		require.NotNil(t, info.Metadata)
		assert.Equal(t, "export.csv", info.Metadata.OriginalName)
		assert.Equal(t, "ana", info.Metadata.Username)
	})

	t.Run("list skips metadata sidecars", func(t *testing.T) {
		require.NoError(t, a.Put(ctx, "imports/2024/04/def.csv", content, nil))
		require.NoError(t, a.Put(ctx, "other/x.csv", content, nil))

		keys, err := a.List(ctx, "imports/")
		require.NoError(t, err)
		assert.Equal(t, []string{"imports/2024/03/abc.csv", "imports/2024/04/def.csv"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, a.Delete(ctx, "other/x.csv"))
		ok, err := a.Exists(ctx, "other/x.csv")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, a.Delete(ctx, "other/x.csv"))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := a.Get(ctx, "imports/nope.csv")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = a.GetInfo(ctx, "imports/nope.csv")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("keys cannot escape the base path", func(t *testing.T) {
		require.NoError(t, a.Put(ctx, "../../escape.csv", content, nil))
		_, err := os.Stat(filepath.Join(base, "escape.csv"))
		assert.NoError(t, err)
	})
}

func TestLocalArchive_Integrity(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	a, err := NewLocalArchive(base)
	require.NoError(t, err)

	content := []byte("ID;Empresa\nP-1;Acme\n")

	t.Run("tampered content is rejected", func(t *testing.T) {
		key := "imports/2024/03/tampered.csv"
		require.NoError(t, a.Put(ctx, key, content, &Metadata{ContentType: "text/csv"}))
		require.NoError(t, os.WriteFile(filepath.Join(base, key), []byte("ID;Empresa\nP-9;Otro\n"), 0o644))

		_, err := a.Get(ctx, key)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("checksum computed without metadata", func(t *testing.T) {
		key := "imports/2024/03/plain.csv"
		require.NoError(t, a.Put(ctx, key, content, nil))

		info, err := a.GetInfo(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, info.Metadata)
		assert.Equal(t, Checksum(content), info.Checksum)
	})

	t.Run("no temporary files remain", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(base, "imports", "2024", "03"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), tempPrefix)
		}
	})
}
