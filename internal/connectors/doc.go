// Package connectors contains document source implementations feeding
// the ingestion pipeline.
package connectors
