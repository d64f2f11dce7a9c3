package domain

import "time"

// Stage identifies a pipeline stage for failure tagging.
type Stage string

const (
	// StageIdentity generates the document identity.
	StageIdentity Stage = "identity"

	// StageFingerprint decodes the document and computes its perceptual hash.
	StageFingerprint Stage = "fingerprint"

	// StageFilter classifies pages and drops blank ones.
	StageFilter Stage = "filter"

	// StageSplit decomposes the cleaned document into per-page artifacts.
	StageSplit Stage = "split"

	// StageRegister records the document in the duplicate index.
	StageRegister Stage = "register"
)

// Status is the terminal (or in-flight) state of a pipeline run.
type Status string

const (
	// StatusProcessing is the initial state while stages execute.
	StatusProcessing Status = "processing"

	// StatusCompleted means every core stage finished.
	StatusCompleted Status = "completed"
)

// FailedAt returns the terminal status for a failure in the given stage.
func FailedAt(stage Stage) Status {
	return Status("failed-at-" + string(stage))
}

// Failed reports whether the status is a failure status.
func (s Status) Failed() bool {
	return s != StatusProcessing && s != StatusCompleted
}

// EnrichmentStatus is the outcome reported by the enrichment collaborator.
type EnrichmentStatus string

const (
	// EnrichmentCompleted means the collaborator produced an enriched artifact.
	EnrichmentCompleted EnrichmentStatus = "completed"

	// EnrichmentFailed means the collaborator was invoked and failed.
	// Never a pipeline failure.
	EnrichmentFailed EnrichmentStatus = "failed"

	// EnrichmentSkipped means no collaborator was configured or there was
	// nothing to enrich.
	EnrichmentSkipped EnrichmentStatus = "skipped"
)

// PipelineResult accumulates the outcome of one document's run through the
// pipeline. It is created at pipeline start, mutated by each stage and
// handed to collaborators at the end; the core does not persist it.
type PipelineResult struct {
	// DocumentID is the composite identity. Empty only when identity
	// generation itself failed.
	DocumentID string `json:"document_id"`

	// FileName is the source file name.
	FileName string `json:"file_name"`

	// ArrivalTime is when the feed observed the file.
	ArrivalTime time.Time `json:"timestamp"`

	// Status is the terminal status; always set before the result is
	// returned, even on failure.
	Status Status `json:"status"`

	// Error holds the failing stage's error text when Status is a failure.
	Error string `json:"error,omitempty"`

	// Fingerprint is the perceptual hash in hex form.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Duplicate is true when the fingerprint matched at least one indexed
	// document at the configured threshold.
	Duplicate bool `json:"duplicate"`

	// Matches lists duplicate candidates, best similarity first.
	Matches []Match `json:"duplicate_matches,omitempty"`

	// OriginalPath is where the untouched source was archived.
	OriginalPath string `json:"original_path,omitempty"`

	// OriginalPages and RetainedPages are the page counts before and after
	// blank-page filtering.
	OriginalPages int `json:"original_pages"`
	RetainedPages int `json:"retained_pages"`

	// CleanedPath is the blank-filtered artifact location. Empty when every
	// page was blank.
	CleanedPath string `json:"cleaned_path,omitempty"`

	// SplitPaths are the per-page artifact locations, in page order.
	// Empty when the cleaned document had one page or fewer.
	SplitPaths []string `json:"split_files,omitempty"`

	// EnrichmentStatus records the OCR collaborator outcome.
	EnrichmentStatus EnrichmentStatus `json:"ocr_status,omitempty"`

	// EnrichedPath is the enriched artifact location when enrichment
	// completed.
	EnrichedPath string `json:"ocr_path,omitempty"`

	// Analysis is the document analysis collaborator's output, when any.
	Analysis *Analysis `json:"analysis,omitempty"`
}
