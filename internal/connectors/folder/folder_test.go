package folder

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

// recordingIngestor implements driving.Ingestor, collecting every
// document it receives.
type recordingIngestor struct {
	mu   sync.Mutex
	docs []*domain.RawDocument
}

func (r *recordingIngestor) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.PipelineResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, raw)
	return &domain.PipelineResult{DocumentID: "DOC_X", Status: domain.StatusCompleted}, nil
}

func (r *recordingIngestor) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.docs))
	for _, doc := range r.docs {
		names = append(names, doc.FileName)
	}
	return names
}

func TestAccepts(t *testing.T) {
	accepted := []string{"a.pdf", "B.PDF", "scan.jpg", "scan.JPEG", "x.png", "y.tiff"}
	for _, name := range accepted {
		assert.True(t, Accepts(name), name)
	}

	rejected := []string{"a.docx", "b.txt", "c.pdf.tmp", "noext", ".hidden", "d.gif"}
	for _, name := range rejected {
		assert.False(t, Accepts(name), name)
	}
}

func TestFeed_ScanExisting(t *testing.T) {
	t.Run("ingests allowed files in name order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"b.pdf", "a.pdf", "notes.txt", "c.png"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0600))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0700))

		ingestor := &recordingIngestor{}
		feed, err := New(dir, ingestor)
		require.NoError(t, err)

		require.NoError(t, feed.ScanExisting(context.Background()))
		assert.Equal(t, []string{"a.pdf", "b.pdf", "c.png"}, ingestor.names())
	})

	t.Run("empty folder is fine", func(t *testing.T) {
		ingestor := &recordingIngestor{}
		feed, err := New(t.TempDir(), ingestor)
		require.NoError(t, err)

		require.NoError(t, feed.ScanExisting(context.Background()))
		assert.Empty(t, ingestor.names())
	})

	t.Run("oversized files are skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "big.pdf"), make([]byte, 2048), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.pdf"), make([]byte, 100), 0600))

		ingestor := &recordingIngestor{}
		feed, err := New(dir, ingestor, WithMaxFileSize(1024))
		require.NoError(t, err)

		require.NoError(t, feed.ScanExisting(context.Background()))
		assert.Equal(t, []string{"ok.pdf"}, ingestor.names())
	})
}

func TestFeed_Run(t *testing.T) {
	t.Run("picks up newly created files", func(t *testing.T) {
		dir := t.TempDir()
		ingestor := &recordingIngestor{}
		feed, err := New(dir, ingestor, WithSettleDelay(20*time.Millisecond))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- feed.Run(ctx) }()

		// Give the watcher a moment to attach.
		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "new.pdf"), []byte("fresh scan"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0600))

		require.Eventually(t, func() bool {
			return len(ingestor.names()) == 1
		}, 3*time.Second, 25*time.Millisecond)
		assert.Equal(t, []string{"new.pdf"}, ingestor.names())

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("processes pre-existing files before watching", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "old.pdf"), []byte("backlog"), 0600))

		ingestor := &recordingIngestor{}
		feed, err := New(dir, ingestor, WithSettleDelay(10*time.Millisecond))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- feed.Run(ctx) }()

		require.Eventually(t, func() bool {
			return len(ingestor.names()) == 1
		}, 3*time.Second, 25*time.Millisecond)

		cancel()
		<-done
		assert.Equal(t, []string{"old.pdf"}, ingestor.names())
	})
}

func TestNew(t *testing.T) {
	t.Run("creates the watch directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inbox")
		_, err := New(path, &recordingIngestor{})
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := New("", &recordingIngestor{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
