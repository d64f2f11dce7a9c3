package driven

import (
	"context"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

// IndexStore persists the duplicate index: the full mapping of document
// identity to IndexEntry. The index is loaded whole at startup and
// rewritten whole on every mutation; there is no incremental append
// format. Implementations must make Persist atomic with respect to
// crashes (write-then-rename or equivalent).
type IndexStore interface {
	// Load reads the entire index. A missing backing file is not an
	// error: it yields an empty map.
	Load(ctx context.Context) (map[string]domain.IndexEntry, error)

	// Persist durably rewrites the entire index before returning.
	Persist(ctx context.Context, entries map[string]domain.IndexEntry) error
}
