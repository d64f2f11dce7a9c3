package jsonindex

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

func entriesFixture() map[string]domain.IndexEntry {
	return map[string]domain.IndexEntry{
		"DOC_20260315_094107_a1b2c3d4e5f6": {
			FileName:    "invoice.pdf",
			Fingerprint: "f0f0f0f0a5a5a5a5",
			Timestamp:   time.Date(2026, 3, 15, 9, 41, 8, 0, time.UTC),
			FileSize:    20480,
			Metadata:    map[string]any{"original_pages": float64(3)},
		},
		"DOC_20260316_101500_0123456789ab": {
			FileName:    "receipt.png",
			Fingerprint: "00ff00ff00ff00ff",
			Timestamp:   time.Date(2026, 3, 16, 10, 15, 1, 0, time.UTC),
			FileSize:    512,
		},
	}
}

func TestStore_LoadPersist(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file loads empty", func(t *testing.T) {
		store, err := NewStore(filepath.Join(t.TempDir(), "index.json"))
		require.NoError(t, err)

		entries, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("round trip", func(t *testing.T) {
		store, err := NewStore(filepath.Join(t.TempDir(), "index.json"))
		require.NoError(t, err)

		want := entriesFixture()
		require.NoError(t, store.Persist(ctx, want))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("persist replaces previous content", func(t *testing.T) {
		store, err := NewStore(filepath.Join(t.TempDir(), "index.json"))
		require.NoError(t, err)

		require.NoError(t, store.Persist(ctx, entriesFixture()))
		require.NoError(t, store.Persist(ctx, map[string]domain.IndexEntry{
			"DOC_ONLY": {FileName: "only.pdf", Fingerprint: "0000000000000001"},
		}))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "only.pdf", got["DOC_ONLY"].FileName)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deep", "index.json")
		store, err := NewStore(path)
		require.NoError(t, err)

		require.NoError(t, store.Persist(ctx, entriesFixture()))
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("loads entries written before optional fields existed", func(t *testing.T) {
		// Hand-written file in the oldest on-disk shape: no metadata,
		// plus a field no current version writes.
		path := filepath.Join(t.TempDir(), "index.json")
		legacy := `{
			"DOC_20250101_120000_abcdefabcdef": {
				"file_name": "archive.pdf",
				"hash": "0123456789abcdef",
				"timestamp": "2025-01-01T12:00:00Z",
				"file_size": 4096,
				"page_count": 7
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(legacy), 0600))

		store, err := NewStore(path)
		require.NoError(t, err)

		got, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)

		entry := got["DOC_20250101_120000_abcdefabcdef"]
		assert.Equal(t, "archive.pdf", entry.FileName)
		assert.Equal(t, "0123456789abcdef", entry.Fingerprint)
		assert.Equal(t, int64(4096), entry.FileSize)
		assert.Nil(t, entry.Metadata)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

		store, err := NewStore(path)
		require.NoError(t, err)

		_, err = store.Load(ctx)
		assert.Error(t, err)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := NewStore("")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// The on-disk document uses the fixed field names older index files
// already carry.
func TestStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Persist(context.Background(), entriesFixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	entry := raw["DOC_20260315_094107_a1b2c3d4e5f6"]
	require.NotNil(t, entry)
	assert.Equal(t, "invoice.pdf", entry["file_name"])
	assert.Equal(t, "f0f0f0f0a5a5a5a5", entry["hash"])
	assert.Equal(t, float64(20480), entry["file_size"])
	assert.Contains(t, entry, "timestamp")
}

func TestStore_PersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "index.json"))
	require.NoError(t, err)
	require.NoError(t, store.Persist(context.Background(), entriesFixture()))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "index.json", files[0].Name())
}
