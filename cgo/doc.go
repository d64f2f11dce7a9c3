// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - mupdf: MuPDF bindings for PDF page rasterisation
package cgo
