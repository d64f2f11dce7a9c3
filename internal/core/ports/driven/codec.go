package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

// DocumentCodec decodes a raw document into rendered pages and reassembles
// page selections into standalone artifacts. Each codec handles a set of
// file extensions (PDF, raster image formats).
type DocumentCodec interface {
	// Extensions returns the lowercase extensions this codec handles,
	// including the dot.
	Extensions() []string

	// Open decodes the raw document into a PagedDocument with every page
	// rendered. Returns an error wrapping domain.ErrRenderFailed when a
	// page cannot be rasterised and a plain decode error for corrupt input.
	Open(ctx context.Context, raw *domain.RawDocument) (*domain.PagedDocument, error)

	// Assemble produces a new artifact containing exactly the given 1-based
	// pages of the raw document, in the order given. The selection must be
	// non-empty.
	Assemble(ctx context.Context, raw *domain.RawDocument, pages []int) ([]byte, error)
}

// CodecRegistry selects a codec for a file extension.
type CodecRegistry interface {
	// Resolve returns the codec for the extension, or an error wrapping
	// domain.ErrUnsupportedType when the extension is outside the
	// allow-list.
	Resolve(ext string) (DocumentCodec, error)

	// Supported returns every registered extension.
	Supported() []string
}

// PageRenderer rasterises the pages of an encoded document. It backs the
// PDF codec; raster image codecs decode directly.
type PageRenderer interface {
	// RenderAll renders every page, in order.
	RenderAll(ctx context.Context, data []byte) ([]image.Image, error)

	// Render renders the single 1-based page.
	Render(ctx context.Context, data []byte, page int) (image.Image, error)
}
