// Package phash implements a 64-bit perceptual hash over document page
// rasters. Visually similar pages produce fingerprints with a small Hamming
// distance, unlike cryptographic digests which scatter on any byte change.
//
// The transform follows the classic pHash construction: scale the raster to
// 32x32 grayscale, apply a 2D type-II DCT, keep the 8x8 low-frequency block
// and threshold each coefficient against the block's median.
package phash

import (
	"fmt"
	"image"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// sampleSize is the edge length the raster is scaled to before the DCT.
	sampleSize = 32

	// hashSize is the edge length of the retained low-frequency block.
	hashSize = 8

	// BitLength is the number of bits in a fingerprint.
	BitLength = hashSize * hashSize
)

// Fingerprint is a fixed-length perceptual hash of a page raster.
// The zero value is a valid fingerprint (an entirely below-median page).
type Fingerprint uint64

// FromImage computes the fingerprint of a page raster.
func FromImage(img image.Image) Fingerprint {
	gray := image.NewGray(image.Rect(0, 0, sampleSize, sampleSize))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	var pixels [sampleSize][sampleSize]float64
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			pixels[y][x] = float64(gray.GrayAt(x, y).Y)
		}
	}

	coeffs := dct2d(&pixels)

	// Low-frequency block, row-major. The median split guarantees a balanced
	// bit population regardless of overall page brightness.
	flat := make([]float64, 0, BitLength)
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			flat = append(flat, coeffs[y][x])
		}
	}
	med := median(flat)

	var fp Fingerprint
	for i, v := range flat {
		if v > med {
			fp |= 1 << (BitLength - 1 - i)
		}
	}
	return fp
}

// Parse decodes the hex form produced by String.
func Parse(s string) (Fingerprint, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) != BitLength/4 {
		return 0, fmt.Errorf("fingerprint must be %d hex characters, got %d", BitLength/4, len(s))
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing fingerprint %q: %w", s, err)
	}
	return Fingerprint(v), nil
}

// String returns the canonical 16-character lowercase hex form.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Distance returns the Hamming distance to another fingerprint.
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(uint64(f) ^ uint64(other))
}

// Similarity returns 1 - distance/bits, in [0,1].
// Equal fingerprints score exactly 1.0 and the measure is symmetric.
func (f Fingerprint) Similarity(other Fingerprint) float64 {
	return 1 - float64(f.Distance(other))/float64(BitLength)
}

// dct2d applies a type-II DCT along rows then columns.
// Only the low-frequency corner is consumed, but computing the full
// transform keeps the code obvious; the input is a fixed 32x32 block.
func dct2d(pixels *[sampleSize][sampleSize]float64) [sampleSize][sampleSize]float64 {
	var rows [sampleSize][sampleSize]float64
	for y := 0; y < sampleSize; y++ {
		rows[y] = dct1d(pixels[y])
	}

	var out [sampleSize][sampleSize]float64
	for x := 0; x < sampleSize; x++ {
		var col [sampleSize]float64
		for y := 0; y < sampleSize; y++ {
			col[y] = rows[y][x]
		}
		col = dct1d(col)
		for y := 0; y < sampleSize; y++ {
			out[y][x] = col[y]
		}
	}
	return out
}

func dct1d(in [sampleSize]float64) [sampleSize]float64 {
	var out [sampleSize]float64
	for k := 0; k < sampleSize; k++ {
		var sum float64
		for n := 0; n < sampleSize; n++ {
			sum += in[n] * math.Cos(math.Pi/sampleSize*(float64(n)+0.5)*float64(k))
		}
		out[k] = sum
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
