package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
	"github.com/custodia-labs/docmill/internal/phash"
)

// DefaultDuplicateThreshold is the default similarity at or above which
// two documents are considered duplicates.
const DefaultDuplicateThreshold = 0.95

// DuplicateIndex answers "have we seen something like this before". It
// holds the full identity -> entry mapping in memory as the source of
// truth for the process lifetime and rewrites it through the store on
// every mutation.
//
// Lookups may run concurrently; Register serialises the whole
// read-modify-persist cycle under the mutex so a concurrent lookup can
// never observe a half-registered document.
type DuplicateIndex struct {
	store     driven.IndexStore
	threshold float64

	mu      sync.RWMutex
	entries map[string]domain.IndexEntry
}

// NewDuplicateIndex loads the persisted index and returns the service.
// A missing index file starts the index empty.
func NewDuplicateIndex(ctx context.Context, store driven.IndexStore, threshold float64) (*DuplicateIndex, error) {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading duplicate index: %w", err)
	}
	if entries == nil {
		entries = make(map[string]domain.IndexEntry)
	}
	logger.Debug("loaded duplicate index with %d document(s)", len(entries))

	return &DuplicateIndex{
		store:     store,
		threshold: threshold,
		entries:   entries,
	}, nil
}

// Threshold returns the configured duplicate similarity threshold.
func (d *DuplicateIndex) Threshold() float64 {
	return d.threshold
}

// Fingerprint computes the perceptual hash of the document's
// representative page (the first page).
func (d *DuplicateIndex) Fingerprint(doc *domain.PagedDocument) (phash.Fingerprint, error) {
	rep := doc.Representative()
	if rep == nil {
		return 0, fmt.Errorf("fingerprinting %s: %w", doc.Raw.FileName, domain.ErrEmptyDocument)
	}
	return phash.FromImage(rep), nil
}

// FindMatches scans every indexed entry and returns those whose
// similarity to fp is at or above threshold, best match first. Entries
// with a missing or malformed fingerprint are skipped.
func (d *DuplicateIndex) FindMatches(fp phash.Fingerprint, threshold float64) []domain.Match {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matches []domain.Match
	for id, entry := range d.entries {
		other, err := phash.Parse(entry.Fingerprint)
		if err != nil {
			logger.Warn("index entry %s has unusable fingerprint: %v", id, err)
			continue
		}

		similarity := fp.Similarity(other)
		if similarity >= threshold {
			matches = append(matches, domain.Match{
				DocumentID: id,
				Similarity: similarity,
				FileName:   entry.FileName,
				Timestamp:  entry.Timestamp,
			})
		}
	}

	// Best match first; identity order breaks ties so output is stable
	// across the map's iteration order.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].DocumentID < matches[j].DocumentID
	})
	return matches
}

// Register inserts or overwrites the entry for identity, then persists
// the full index before returning. If persistence fails the in-memory
// index is rolled back so memory and disk never diverge.
func (d *DuplicateIndex) Register(ctx context.Context, identity string, entry domain.IndexEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous, existed := d.entries[identity]
	d.entries[identity] = entry

	if err := d.store.Persist(ctx, d.entries); err != nil {
		if existed {
			d.entries[identity] = previous
		} else {
			delete(d.entries, identity)
		}
		return fmt.Errorf("persisting duplicate index: %w", err)
	}

	logger.Info("registered %s in duplicate index (%d total)", identity, len(d.entries))
	return nil
}

// Size returns the number of indexed documents.
func (d *DuplicateIndex) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Entries returns a copy of the index keyed by identity, for inspection.
func (d *DuplicateIndex) Entries() map[string]domain.IndexEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]domain.IndexEntry, len(d.entries))
	for id, entry := range d.entries {
		out[id] = entry
	}
	return out
}
