//go:build !cgo

package mupdf

import (
	"context"
	"image"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.PageRenderer = (*Renderer)(nil)

// Renderer rasterises PDF pages with MuPDF.
// This is a stub for builds without CGO.
type Renderer struct{}

// New creates a new MuPDF renderer.
func New() *Renderer {
	return &Renderer{}
}

// RenderAll renders every page of the document, in order.
func (r *Renderer) RenderAll(_ context.Context, _ []byte) ([]image.Image, error) {
	return nil, domain.ErrNotImplemented
}

// Render renders the single 1-based page.
func (r *Renderer) Render(_ context.Context, _ []byte, _ int) (image.Image, error) {
	return nil, domain.ErrNotImplemented
}
