package domain

import (
	"image"
	"path/filepath"
	"strings"
	"time"
)

// RawDocument represents a file handed to the pipeline by a source feed,
// before any decoding. It is the ingestion entry point's input.
type RawDocument struct {
	// FileName is the base name of the file as it arrived.
	FileName string

	// Content is the raw file bytes.
	Content []byte

	// ArrivalTime is when the feed observed the file. It participates in
	// identity generation, so re-ingesting identical bytes later produces
	// a new identity.
	ArrivalTime time.Time
}

// Extension returns the lowercase file extension including the dot.
func (r *RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.FileName))
}

// Stem returns the file name without its extension.
func (r *RawDocument) Stem() string {
	return strings.TrimSuffix(r.FileName, filepath.Ext(r.FileName))
}

// Page is a single decoded page of a document.
type Page struct {
	// Number is the 1-based page number in the original document.
	Number int

	// Image is the rendered raster, used for blank classification and
	// fingerprinting.
	Image image.Image
}

// PagedDocument is a decoded document: an ordered sequence of rendered
// pages plus the raw bytes they came from. Codecs produce it; the
// classifier, filter and fingerprint consume it.
type PagedDocument struct {
	// Raw is the source the pages were decoded from.
	Raw *RawDocument

	// Pages are the rendered pages in original order.
	Pages []Page
}

// PageCount returns the number of pages.
func (d *PagedDocument) PageCount() int {
	return len(d.Pages)
}

// Representative returns the raster used for fingerprinting: the first
// page. Returns nil for a zero-page document.
func (d *PagedDocument) Representative() image.Image {
	if len(d.Pages) == 0 {
		return nil
	}
	return d.Pages[0].Image
}

// PageArtifact is one file produced by the page splitter.
type PageArtifact struct {
	// Page is the 1-based page number within the cleaned document.
	Page int

	// Path is the location the artifact was written to.
	Path string
}
