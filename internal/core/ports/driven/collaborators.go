package driven

import (
	"context"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

// EnrichmentResult is what the enrichment collaborator hands back.
type EnrichmentResult struct {
	// Status is completed, failed or skipped. The core records it without
	// interpreting the enriched content.
	Status domain.EnrichmentStatus

	// OutputPath is the enriched artifact location when Status is completed.
	OutputPath string

	// Text is the extracted text layer, when the collaborator provides it.
	// May be empty even on success.
	Text string
}

// Enricher generates a text layer for a cleaned document (OCR).
// The implementation is an external service adapter; the core never
// retries and treats any error as EnrichmentFailed.
type Enricher interface {
	// Enrich processes the artifact at path and returns the outcome.
	Enrich(ctx context.Context, path string) (EnrichmentResult, error)
}

// Analyzer performs natural-language analysis of an enriched document.
type Analyzer interface {
	// Analyze inspects the document text and returns structured findings.
	Analyze(ctx context.Context, text string, metadata map[string]any) (*domain.Analysis, error)
}

// ResultRecorder records a finished PipelineResult off-process
// (ledger row, spreadsheet row, object store). The core only logs
// recording failures.
type ResultRecorder interface {
	// Record persists the result.
	Record(ctx context.Context, result *domain.PipelineResult) error
}

// Notifier delivers outbound events. Delivery is best-effort and must be
// bounded: the pipeline hands the event over and moves on.
type Notifier interface {
	// Notify delivers one event.
	Notify(ctx context.Context, event domain.Event) error
}
