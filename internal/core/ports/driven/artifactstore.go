package driven

import "context"

// ArtifactStore writes the files the pipeline produces. Implementations
// decide the layout; returned paths are what downstream collaborators and
// the PipelineResult see.
type ArtifactStore interface {
	// SaveOriginal archives the untouched source file.
	SaveOriginal(ctx context.Context, fileName string, data []byte) (string, error)

	// SaveCleaned writes the blank-filtered document.
	SaveCleaned(ctx context.Context, fileName string, data []byte) (string, error)

	// SaveSplitPage writes one per-page artifact. page is 1-based and ext
	// includes the dot.
	SaveSplitPage(ctx context.Context, stem string, page int, ext string, data []byte) (string, error)
}
