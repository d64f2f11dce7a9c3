package services

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/core/ports/driving"
	"github.com/custodia-labs/docmill/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// IngestOrchestrator drives one document through the pipeline:
// identity -> fingerprint + duplicate lookup -> blank filter -> split ->
// register -> collaborator handoff. Failures are contained per stage: the
// result always reaches a terminal status and subsequent documents are
// unaffected. No stage is retried.
type IngestOrchestrator struct {
	registry  driven.CodecRegistry
	identity  IdentityGenerator
	filter    *BlankPageFilter
	splitter  *PageSplitter
	index     *DuplicateIndex
	artifacts driven.ArtifactStore
	enricher  driven.Enricher
	analyzer  driven.Analyzer
	recorders []driven.ResultRecorder
	notifier  driven.Notifier
}

// NewIngestOrchestrator creates the orchestrator. Enricher, analyzer,
// recorders and notifier are optional - nil disables the corresponding
// handoff and the pipeline degrades gracefully.
func NewIngestOrchestrator(
	registry driven.CodecRegistry,
	filter *BlankPageFilter,
	splitter *PageSplitter,
	index *DuplicateIndex,
	artifacts driven.ArtifactStore,
	enricher driven.Enricher,
	analyzer driven.Analyzer,
	recorders []driven.ResultRecorder,
	notifier driven.Notifier,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		registry:  registry,
		filter:    filter,
		splitter:  splitter,
		index:     index,
		artifacts: artifacts,
		enricher:  enricher,
		analyzer:  analyzer,
		recorders: recorders,
		notifier:  notifier,
	}
}

// Ingest runs the full pipeline for one raw document.
//
//nolint:gocyclo // Orchestration function with necessary sequential stages
func (o *IngestOrchestrator) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{
		FileName:    raw.FileName,
		ArrivalTime: raw.ArrivalTime,
		Status:      domain.StatusProcessing,
	}

	logger.Info("processing document: %s", raw.FileName)

	// Stage 1: identity. Fatal for this document - nothing can be tracked
	// without it.
	identity, err := o.identity.CompositeID(bytes.NewReader(raw.Content), raw.ArrivalTime)
	if err != nil {
		return o.fail(ctx, result, domain.StageIdentity, err), nil
	}
	result.DocumentID = identity
	logger.Debug("generated identity %s for %s", identity, raw.FileName)

	// Archive the untouched original. Best-effort: the pipeline can finish
	// without the archival copy.
	if path, archiveErr := o.artifacts.SaveOriginal(ctx, raw.FileName, raw.Content); archiveErr != nil {
		logger.Warn("archiving original %s: %v", raw.FileName, archiveErr)
	} else {
		result.OriginalPath = path
	}

	// Stage 2: fingerprint and duplicate lookup. A match never stops the
	// pipeline - the artifact is still cleaned, split and indexed.
	codec, err := o.registry.Resolve(raw.Extension())
	if err != nil {
		return o.fail(ctx, result, domain.StageFingerprint, err), nil
	}
	doc, err := codec.Open(ctx, raw)
	if err != nil {
		return o.fail(ctx, result, domain.StageFingerprint, err), nil
	}
	fp, err := o.index.Fingerprint(doc)
	if err != nil {
		return o.fail(ctx, result, domain.StageFingerprint, err), nil
	}
	result.Fingerprint = fp.String()

	if matches := o.index.FindMatches(fp, o.index.Threshold()); len(matches) > 0 {
		logger.Warn("duplicate detected: %d match(es) for %s", len(matches), raw.FileName)
		result.Duplicate = true
		result.Matches = matches
		o.notify(ctx, domain.EventDuplicateFound, map[string]any{
			"document_id":       identity,
			"file_name":         raw.FileName,
			"duplicate_matches": matches,
		})
	}

	// Stage 3: classify pages and drop blanks. A fully blank document is a
	// valid zero-page result: nothing to clean, split or enrich.
	kept, original, retained := o.filter.Filter(doc)
	result.OriginalPages = original
	result.RetainedPages = retained

	var cleaned *domain.RawDocument
	if retained > 0 {
		data, assembleErr := codec.Assemble(ctx, raw, kept)
		if assembleErr != nil {
			return o.fail(ctx, result, domain.StageFilter, assembleErr), nil
		}
		path, saveErr := o.artifacts.SaveCleaned(ctx, raw.FileName, data)
		if saveErr != nil {
			return o.fail(ctx, result, domain.StageFilter, saveErr), nil
		}
		result.CleanedPath = path
		cleaned = &domain.RawDocument{
			FileName:    raw.FileName,
			Content:     data,
			ArrivalTime: raw.ArrivalTime,
		}
	}

	// Stage 4: split, only when more than one page survived. A split
	// failure leaves the already-written artifacts in place.
	if retained > 1 {
		artifacts, splitErr := o.splitter.Split(ctx, codec, cleaned, retained)
		for _, artifact := range artifacts {
			result.SplitPaths = append(result.SplitPaths, artifact.Path)
		}
		if splitErr != nil {
			return o.fail(ctx, result, domain.StageSplit, splitErr), nil
		}
	}

	// Stage 5: register, regardless of duplicate status, so later
	// documents are compared against this one too.
	entry := domain.IndexEntry{
		FileName:    raw.FileName,
		Fingerprint: result.Fingerprint,
		Timestamp:   time.Now(),
		FileSize:    int64(len(raw.Content)),
		Metadata: map[string]any{
			"original_pages": original,
			"retained_pages": retained,
			"duplicate":      result.Duplicate,
		},
	}
	if err := o.index.Register(ctx, identity, entry); err != nil {
		return o.fail(ctx, result, domain.StageRegister, err), nil
	}

	// Collaborator handoff. Failures here are recorded or logged, never
	// surfaced as pipeline failures.
	text := o.enrich(ctx, result)
	o.analyze(ctx, result, text)

	result.Status = domain.StatusCompleted
	o.record(ctx, result)
	o.notify(ctx, domain.EventDocumentProcessed, resultData(result))

	logger.Info("document processing completed: %s", identity)
	return result, nil
}

// fail marks the result with a stage-tagged terminal status, records it
// and raises a processing_error event. The error never propagates.
func (o *IngestOrchestrator) fail(
	ctx context.Context,
	result *domain.PipelineResult,
	stage domain.Stage,
	err error,
) *domain.PipelineResult {
	result.Status = domain.FailedAt(stage)
	result.Error = err.Error()

	id := result.DocumentID
	if id == "" {
		id = "unknown"
	}
	logger.Error("document %s failed at stage %s: %v", id, stage, err)

	o.record(ctx, result)
	o.notify(ctx, domain.EventProcessingError, map[string]any{
		"document_id":      id,
		"file_name":        result.FileName,
		"processing_stage": string(stage),
		"error_message":    err.Error(),
	})
	return result
}

// enrich hands the cleaned artifact to the enrichment collaborator and
// returns any extracted text for downstream analysis.
func (o *IngestOrchestrator) enrich(ctx context.Context, result *domain.PipelineResult) string {
	if o.enricher == nil || result.CleanedPath == "" {
		result.EnrichmentStatus = domain.EnrichmentSkipped
		return ""
	}

	enrichment, err := o.enricher.Enrich(ctx, result.CleanedPath)
	if err != nil {
		logger.Warn("enrichment failed for %s: %v", result.DocumentID, err)
		result.EnrichmentStatus = domain.EnrichmentFailed
		return ""
	}
	result.EnrichmentStatus = enrichment.Status
	result.EnrichedPath = enrichment.OutputPath
	return enrichment.Text
}

// analyze runs the analysis collaborator over the enriched document.
func (o *IngestOrchestrator) analyze(ctx context.Context, result *domain.PipelineResult, text string) {
	if o.analyzer == nil || result.EnrichmentStatus != domain.EnrichmentCompleted {
		return
	}

	if text == "" {
		text = "Document: " + result.FileName
	}
	analysis, err := o.analyzer.Analyze(ctx, text, map[string]any{
		"document_id": result.DocumentID,
		"file_name":   result.FileName,
	})
	if err != nil {
		logger.Warn("analysis failed for %s: %v", result.DocumentID, err)
		return
	}
	result.Analysis = analysis

	if len(analysis.Anomalies) > 0 {
		o.notify(ctx, domain.EventAnomalyDetected, map[string]any{
			"document_id": result.DocumentID,
			"anomalies":   analysis.Anomalies,
		})
	}
}

// record hands the result to every configured recorder.
func (o *IngestOrchestrator) record(ctx context.Context, result *domain.PipelineResult) {
	for _, recorder := range o.recorders {
		if err := recorder.Record(ctx, result); err != nil {
			logger.Warn("recording result for %s: %v", result.DocumentID, err)
		}
	}
}

// notify delivers one event, best-effort.
func (o *IngestOrchestrator) notify(ctx context.Context, kind domain.EventType, data map[string]any) {
	if o.notifier == nil {
		return
	}
	event := domain.Event{
		Type:      kind,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := o.notifier.Notify(ctx, event); err != nil {
		logger.Warn("delivering %s event: %v", kind, err)
	}
}

// resultData flattens a result into an event payload.
func resultData(result *domain.PipelineResult) map[string]any {
	data := map[string]any{
		"document_id":    result.DocumentID,
		"file_name":      result.FileName,
		"timestamp":      result.ArrivalTime,
		"status":         string(result.Status),
		"duplicate":      result.Duplicate,
		"original_pages": result.OriginalPages,
		"retained_pages": result.RetainedPages,
		"ocr_status":     string(result.EnrichmentStatus),
	}
	if len(result.SplitPaths) > 0 {
		data["split_files"] = result.SplitPaths
	}
	if len(result.Matches) > 0 {
		data["duplicate_matches"] = result.Matches
	}
	return data
}
