package services

import (
	"image"
	"image/color"
)

// whiteCutoff is the luminance below which a pixel counts as content.
// Pages scanned as "white" rarely hit 255 exactly, so everything at or
// above 250 is treated as background.
const whiteCutoff = 250

// DefaultBlankThreshold is the default non-white-pixel ratio below which a
// page is considered blank.
const DefaultBlankThreshold = 0.05

// PageClassifier decides whether a rendered page carries meaningful
// content. It is stateless and deterministic.
type PageClassifier struct {
	threshold float64
}

// NewPageClassifier creates a classifier with the given blank threshold.
// A non-positive threshold falls back to DefaultBlankThreshold.
func NewPageClassifier(threshold float64) *PageClassifier {
	if threshold <= 0 {
		threshold = DefaultBlankThreshold
	}
	return &PageClassifier{threshold: threshold}
}

// Threshold returns the configured blank threshold.
func (c *PageClassifier) Threshold() float64 {
	return c.threshold
}

// IsBlank reports whether the page raster is visually empty: its
// non-white pixel ratio is below the threshold.
func (c *PageClassifier) IsBlank(page image.Image) bool {
	return NonWhiteRatio(page) < c.threshold
}

// NonWhiteRatio computes the fraction of pixels darker than the
// near-white cutoff, over the page's luminance channel. An empty raster
// has ratio 0.
func NonWhiteRatio(page image.Image) float64 {
	bounds := page.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	nonWhite := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(page.At(x, y)).(color.Gray)
			if gray.Y < whiteCutoff {
				nonWhite++
			}
		}
	}
	return float64(nonWhite) / float64(total)
}
