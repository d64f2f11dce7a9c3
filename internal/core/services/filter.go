package services

import (
	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/logger"
)

// BlankPageFilter prunes visually empty pages from a decoded document.
type BlankPageFilter struct {
	classifier *PageClassifier
}

// NewBlankPageFilter creates a filter using the given classifier.
func NewBlankPageFilter(classifier *PageClassifier) *BlankPageFilter {
	return &BlankPageFilter{classifier: classifier}
}

// Filter classifies every page and returns the 1-based numbers of the
// pages to keep, in original order, plus the original and retained
// counts. A document where every page is blank yields an empty keep list;
// that is a valid result, not an error. The input document is untouched.
func (f *BlankPageFilter) Filter(doc *domain.PagedDocument) (kept []int, original, retained int) {
	original = doc.PageCount()
	for _, page := range doc.Pages {
		if f.classifier.IsBlank(page.Image) {
			logger.Debug("dropping blank page %d", page.Number)
			continue
		}
		kept = append(kept, page.Number)
	}
	retained = len(kept)
	if removed := original - retained; removed > 0 {
		logger.Info("removed %d blank page(s), %d of %d retained", removed, retained, original)
	}
	return kept, original, retained
}
