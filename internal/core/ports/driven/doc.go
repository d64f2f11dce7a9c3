// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - DocumentCodec: decodes documents into rendered pages and reassembles
//     page selections into new artifacts
//   - CodecRegistry: selects a codec by file extension (the allow-list)
//   - IndexStore: durable persistence of the duplicate index
//   - ArtifactStore: writes originals, cleaned documents and split pages
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - Enricher: OCR text-layer generation. Without it, enrichment is skipped.
//   - Analyzer: document analysis. Without it, no analysis or anomaly events.
//   - ResultRecorder: off-process recording of results. Failures are logged.
//   - Notifier: outbound event delivery. Failures are logged.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
