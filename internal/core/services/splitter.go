package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
)

// PageSplitter decomposes a multi-page document into single-page
// artifacts, preserving page order.
type PageSplitter struct {
	artifacts driven.ArtifactStore
}

// NewPageSplitter creates a splitter writing through the given store.
func NewPageSplitter(artifacts driven.ArtifactStore) *PageSplitter {
	return &PageSplitter{artifacts: artifacts}
}

// Split writes one artifact per page of the cleaned document, named
// sequentially from page 1. Artifacts written before a failure are NOT
// rolled back; the returned slice holds whatever was written so callers
// can clean up or re-run.
func (s *PageSplitter) Split(
	ctx context.Context,
	codec driven.DocumentCodec,
	cleaned *domain.RawDocument,
	pageCount int,
) ([]domain.PageArtifact, error) {
	if pageCount < 1 {
		return nil, domain.ErrEmptyDocument
	}

	artifacts := make([]domain.PageArtifact, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		data, err := codec.Assemble(ctx, cleaned, []int{page})
		if err != nil {
			return artifacts, fmt.Errorf("assembling page %d: %w", page, err)
		}

		path, err := s.artifacts.SaveSplitPage(ctx, cleaned.Stem(), page, cleaned.Extension(), data)
		if err != nil {
			return artifacts, fmt.Errorf("writing page %d: %w", page, err)
		}

		logger.Debug("wrote split page %d: %s", page, path)
		artifacts = append(artifacts, domain.PageArtifact{Page: page, Path: path})
	}

	logger.Info("split %s into %d page(s)", cleaned.FileName, len(artifacts))
	return artifacts, nil
}
