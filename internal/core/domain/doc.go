// Package domain defines the core business entities for docmill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: opaque bytes handed in by a source feed
//   - PagedDocument / Page: a decoded document with rendered pages
//   - IndexEntry / Match: the duplicate index record and lookup result
//   - PipelineResult: the per-document outcome record
//   - Event: an outbound notification
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
