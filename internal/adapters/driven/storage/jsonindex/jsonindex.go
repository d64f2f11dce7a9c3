// Package jsonindex persists the duplicate index as a single JSON file.
// The whole index is rewritten on every change; the file doubles as a
// human-inspectable audit record.
package jsonindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Store reads and rewrites the index file. Writes go through a temp file
// in the same directory followed by a rename, so a crash mid-write leaves
// the previous index intact.
type Store struct {
	path string
}

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// NewStore creates a store backed by the JSON file at path. The parent
// directory is created if missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: index path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the index file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the entire index. A missing file yields an empty map.
func (s *Store) Load(_ context.Context) (map[string]domain.IndexEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]domain.IndexEntry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index file: %w", err)
	}

	var entries map[string]domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing index file %s: %w", s.path, err)
	}
	if entries == nil {
		entries = make(map[string]domain.IndexEntry)
	}
	return entries, nil
}

// Persist rewrites the entire index atomically.
func (s *Store) Persist(_ context.Context, entries map[string]domain.IndexEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp index file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp index file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing index file: %w", err)
	}
	return nil
}
