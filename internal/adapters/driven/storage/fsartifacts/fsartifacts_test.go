package fsartifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

func TestStore_Layout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)

	t.Run("fixed directories exist after construction", func(t *testing.T) {
		for _, sub := range []string{"originals", "cleaned", "split"} {
			info, err := os.Stat(filepath.Join(root, sub))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	})

	t.Run("original keeps its name", func(t *testing.T) {
		path, err := store.SaveOriginal(ctx, "invoice.pdf", []byte("original bytes"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "originals", "invoice.pdf"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("original bytes"), data)
	})

	t.Run("cleaned gets the cleaned_ prefix", func(t *testing.T) {
		path, err := store.SaveCleaned(ctx, "invoice.pdf", []byte("cleaned bytes"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "cleaned", "cleaned_invoice.pdf"), path)
	})

	t.Run("split pages are grouped per document", func(t *testing.T) {
		first, err := store.SaveSplitPage(ctx, "invoice", 1, ".pdf", []byte("p1"))
		require.NoError(t, err)
		second, err := store.SaveSplitPage(ctx, "invoice", 12, ".pdf", []byte("p12"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, "split", "split_invoice", "invoice_page_001.pdf"), first)
		assert.Equal(t, filepath.Join(root, "split", "split_invoice", "invoice_page_012.pdf"), second)
	})

	t.Run("path traversal in file names is stripped", func(t *testing.T) {
		path, err := store.SaveOriginal(ctx, "../../etc/passwd", []byte("nope"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "originals", "passwd"), path)
	})

	t.Run("zero page rejected", func(t *testing.T) {
		_, err := store.SaveSplitPage(ctx, "doc", 0, ".pdf", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestNewStore_EmptyRoot(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
