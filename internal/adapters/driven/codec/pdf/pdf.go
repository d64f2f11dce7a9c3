// Package pdf decodes and reassembles PDF documents. Rasterisation is
// delegated to a PageRenderer (MuPDF via cgo when available); page
// extraction is pure Go through pdfcpu.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Codec handles .pdf documents.
type Codec struct {
	renderer driven.PageRenderer
	conf     *model.Configuration
}

// Ensure Codec implements the interface.
var _ driven.DocumentCodec = (*Codec)(nil)

// New creates the PDF codec around the given renderer.
func New(renderer driven.PageRenderer) *Codec {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Codec{renderer: renderer, conf: conf}
}

// Extensions returns the single extension the codec accepts.
func (*Codec) Extensions() []string {
	return []string{".pdf"}
}

// Open rasterises every page of the document.
func (c *Codec) Open(ctx context.Context, raw *domain.RawDocument) (*domain.PagedDocument, error) {
	images, err := c.renderer.RenderAll(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", raw.FileName, err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("rendering %s: %w", raw.FileName, domain.ErrEmptyDocument)
	}

	doc := &domain.PagedDocument{Raw: raw}
	for i, img := range images {
		doc.Pages = append(doc.Pages, domain.Page{Number: i + 1, Image: img})
	}
	return doc, nil
}

// Assemble produces a new PDF containing exactly the selected 1-based
// pages, in the order given.
func (c *Codec) Assemble(_ context.Context, raw *domain.RawDocument, pages []int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: empty page selection", domain.ErrInvalidInput)
	}
	selection := make([]string, 0, len(pages))
	for _, page := range pages {
		if page < 1 {
			return nil, fmt.Errorf("%w: page numbers are 1-based, got %d", domain.ErrInvalidInput, page)
		}
		selection = append(selection, strconv.Itoa(page))
	}

	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(raw.Content), &out, selection, c.conf); err != nil {
		return nil, fmt.Errorf("extracting pages %v from %s: %w", pages, raw.FileName, err)
	}
	return out.Bytes(), nil
}
