// Package fsartifacts lays out pipeline artifacts on the local
// filesystem:
//
//	<root>/originals/<name>            archived source files
//	<root>/cleaned/cleaned_<name>      blank-filtered documents
//	<root>/split/split_<stem>/<stem>_page_NNN<ext>
package fsartifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Store writes artifacts under a root directory.
type Store struct {
	root string
}

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// NewStore creates the store rooted at dir, creating the fixed layout
// directories up front.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: artifact root is empty", domain.ErrInvalidInput)
	}
	for _, sub := range []string{"originals", "cleaned", "split"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", sub, err)
		}
	}
	return &Store{root: dir}, nil
}

// Root returns the artifact root directory.
func (s *Store) Root() string {
	return s.root
}

// SaveOriginal archives the untouched source file.
func (s *Store) SaveOriginal(_ context.Context, fileName string, data []byte) (string, error) {
	path := filepath.Join(s.root, "originals", filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("archiving original: %w", err)
	}
	return path, nil
}

// SaveCleaned writes the blank-filtered document with a cleaned_ prefix.
func (s *Store) SaveCleaned(_ context.Context, fileName string, data []byte) (string, error) {
	path := filepath.Join(s.root, "cleaned", "cleaned_"+filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing cleaned document: %w", err)
	}
	return path, nil
}

// SaveSplitPage writes one per-page artifact under the document's split
// directory. page is 1-based and ext includes the dot.
func (s *Store) SaveSplitPage(_ context.Context, stem string, page int, ext string, data []byte) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w: page numbers are 1-based, got %d", domain.ErrInvalidInput, page)
	}

	dir := filepath.Join(s.root, "split", "split_"+stem)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating split directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_page_%03d%s", stem, page, ext))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing split page %d: %w", page, err)
	}
	return path, nil
}
