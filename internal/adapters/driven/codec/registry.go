// Package codec maps file extensions to document codecs.
package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Registry resolves codecs by lowercase file extension. Registration
// happens once at construction; lookups are read-only and safe for
// concurrent use.
type Registry struct {
	codecs map[string]driven.DocumentCodec
}

// Ensure Registry implements the interface.
var _ driven.CodecRegistry = (*Registry)(nil)

// NewRegistry builds a registry from the given codecs. A later codec
// claiming an extension an earlier one already handles wins.
func NewRegistry(codecs ...driven.DocumentCodec) *Registry {
	byExt := make(map[string]driven.DocumentCodec)
	for _, c := range codecs {
		for _, ext := range c.Extensions() {
			byExt[strings.ToLower(ext)] = c
		}
	}
	return &Registry{codecs: byExt}
}

// Resolve returns the codec handling ext. Extensions outside the
// registered set yield an error wrapping domain.ErrUnsupportedType.
func (r *Registry) Resolve(ext string) (driven.DocumentCodec, error) {
	c, ok := r.codecs[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	return c, nil
}

// Supported returns every registered extension, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
