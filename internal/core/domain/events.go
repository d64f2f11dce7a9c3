package domain

import "time"

// EventType identifies an outbound notification kind.
type EventType string

const (
	// EventDocumentProcessed is sent when a document completes the pipeline.
	EventDocumentProcessed EventType = "document_processed"

	// EventProcessingError is sent when a stage fails.
	EventProcessingError EventType = "processing_error"

	// EventDuplicateFound is sent when a fingerprint lookup matched.
	EventDuplicateFound EventType = "duplicate_found"

	// EventAnomalyDetected is sent when analysis reported anomalies.
	EventAnomalyDetected EventType = "anomaly_detected"
)

// Event is an outbound notification. Delivery is best-effort: failures are
// logged by the orchestrator and never propagate into the pipeline.
type Event struct {
	// Type is the event kind.
	Type EventType `json:"event_type"`

	// Timestamp is when the event was raised.
	Timestamp time.Time `json:"timestamp"`

	// Data is an opaque payload, typically a subset of PipelineResult
	// fields relevant to the event kind.
	Data map[string]any `json:"data"`
}
