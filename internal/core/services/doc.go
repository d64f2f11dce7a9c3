// Package services implements the driving port interfaces.
// Services contain the core pipeline logic - identity generation, page
// classification, blank filtering, splitting, the duplicate index and the
// ingestion orchestrator - and call out through driven ports (adapters).
//
// Services are pure Go with no CGO dependencies.
package services
