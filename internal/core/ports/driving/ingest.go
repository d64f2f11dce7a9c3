package driving

import (
	"context"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

// Ingestor drives one document through the full pipeline. The source feed
// calls Ingest once per discovered file, pre-existing files first, then
// each newly detected file.
type Ingestor interface {
	// Ingest runs the pipeline for one raw document. The returned result
	// always carries a terminal status, even on failure; the error return
	// is reserved for context cancellation.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.PipelineResult, error)
}
