// Package folder feeds the pipeline from a watched directory: files
// already present at startup first, then filesystem create events.
package folder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driving"
	"github.com/custodia-labs/docmill/internal/logger"
)

// allowedExtensions is the fixed input allow-list. Everything else in the
// folder is ignored, not rejected: office files, temp files and sidecar
// files routinely land next to scans.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
}

// Feed watches one directory and hands discovered documents to the
// ingestor, one at a time.
type Feed struct {
	path        string
	ingestor    driving.Ingestor
	settleDelay time.Duration
	maxFileSize int64
}

// Option configures the feed.
type Option func(*Feed)

// WithSettleDelay overrides how long a new file must sit before pickup.
func WithSettleDelay(delay time.Duration) Option {
	return func(f *Feed) {
		f.settleDelay = delay
	}
}

// WithMaxFileSize skips files larger than size bytes. Zero means no limit.
func WithMaxFileSize(size int64) Option {
	return func(f *Feed) {
		f.maxFileSize = size
	}
}

// New creates a feed over path, creating the directory if needed.
func New(path string, ingestor driving.Ingestor, opts ...Option) (*Feed, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: watch path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("creating watch directory: %w", err)
	}

	f := &Feed{
		path:        path,
		ingestor:    ingestor,
		settleDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Accepts reports whether the file name passes the extension allow-list.
func Accepts(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Run processes pre-existing files, then blocks watching for new ones
// until the context is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.ScanExisting(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.path); err != nil {
		return fmt.Errorf("watching %s: %w", f.path, err)
	}
	logger.Info("watching folder: %s", f.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				f.handleCreate(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// ScanExisting ingests files already sitting in the folder, in name
// order so runs are reproducible.
func (f *Feed) ScanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.path, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !Accepts(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) > 0 {
		logger.Info("found %d existing document(s) in %s", len(names), f.path)
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.ingest(ctx, filepath.Join(f.path, name))
	}
	return nil
}

// handleCreate waits for the file to settle, probes readability, then
// ingests. Files that vanish before the settle delay elapses (editors
// writing through temp files) are dropped silently.
func (f *Feed) handleCreate(ctx context.Context, path string) {
	if !Accepts(filepath.Base(path)) {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}
	logger.Info("new file detected: %s", filepath.Base(path))

	select {
	case <-ctx.Done():
		return
	case <-time.After(f.settleDelay):
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("file no longer exists: %s", filepath.Base(path))
		return
	}
	if err := probeReadable(path); err != nil {
		logger.Error("file not readable: %s: %v", filepath.Base(path), err)
		return
	}

	f.ingest(ctx, path)
}

// ingest reads the file and runs the pipeline. Pipeline errors are not
// propagated: the feed keeps serving subsequent files.
func (f *Feed) ingest(ctx context.Context, path string) {
	name := filepath.Base(path)

	if f.maxFileSize > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > f.maxFileSize {
			logger.Warn("skipping %s: %d bytes exceeds limit", name, info.Size())
			return
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("reading %s: %v", name, err)
		return
	}

	raw := &domain.RawDocument{
		FileName:    name,
		Content:     content,
		ArrivalTime: time.Now(),
	}
	if _, err := f.ingestor.Ingest(ctx, raw); err != nil {
		logger.Error("ingesting %s: %v", name, err)
	}
}

// probeReadable opens the file and reads one byte, mirroring the guard
// against files still being written by the producer.
func probeReadable(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, 1)
	if _, err := file.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
