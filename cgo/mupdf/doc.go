// Package mupdf rasterises PDF pages through MuPDF (via go-fitz).
// It implements the driven.PageRenderer interface.
//
// Build requires:
//   - CGO enabled; go-fitz bundles the MuPDF sources
package mupdf
