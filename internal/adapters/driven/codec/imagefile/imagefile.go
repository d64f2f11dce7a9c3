// Package imagefile decodes single-page raster documents (scans delivered
// as JPEG, PNG, BMP or TIFF files).
package imagefile

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Register stdlib decoders with image.Decode.
	_ "image/jpeg"
	_ "image/png"

	// Register extended format decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Codec treats a raster image file as a one-page document. Assembling the
// single page reproduces the original bytes unchanged; re-encoding would
// only lose quality.
type Codec struct{}

// Ensure Codec implements the interface.
var _ driven.DocumentCodec = (*Codec)(nil)

// New creates the raster image codec.
func New() *Codec {
	return &Codec{}
}

// Extensions returns the raster formats the codec accepts.
func (*Codec) Extensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}
}

// Open decodes the image into a single-page document.
func (*Codec) Open(_ context.Context, raw *domain.RawDocument) (*domain.PagedDocument, error) {
	img, _, err := image.Decode(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %v", raw.FileName, domain.ErrRenderFailed, err)
	}

	return &domain.PagedDocument{
		Raw:   raw,
		Pages: []domain.Page{{Number: 1, Image: img}},
	}, nil
}

// Assemble returns the original bytes for the only valid selection, page 1.
func (*Codec) Assemble(_ context.Context, raw *domain.RawDocument, pages []int) ([]byte, error) {
	if len(pages) != 1 || pages[0] != 1 {
		return nil, fmt.Errorf("%w: image documents have exactly one page, got selection %v",
			domain.ErrInvalidInput, pages)
	}
	out := make([]byte, len(raw.Content))
	copy(out, raw.Content)
	return out, nil
}
