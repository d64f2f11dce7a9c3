//go:build cgo

package mupdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.PageRenderer = (*Renderer)(nil)

// Renderer rasterises PDF pages with MuPDF.
type Renderer struct{}

// New creates a new MuPDF renderer.
func New() *Renderer {
	return &Renderer{}
}

// RenderAll renders every page of the document, in order.
func (r *Renderer) RenderAll(ctx context.Context, data []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	defer doc.Close()

	images := make([]image.Image, 0, doc.NumPage())
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.Image(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w: %v", page+1, domain.ErrRenderFailed, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// Render renders the single 1-based page.
func (r *Renderer) Render(_ context.Context, data []byte, page int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrInvalidInput, page, doc.NumPage())
	}
	img, err := doc.Image(page - 1)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w: %v", page, domain.ErrRenderFailed, err)
	}
	return img, nil
}
