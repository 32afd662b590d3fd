package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration, YouTube thumbnails
)

// DefaultArtworkSize is the edge length artwork is fitted into when
// no size is configured.
const DefaultArtworkSize = 600

// ErrEmptyImage is returned for zero-length image payloads.
var ErrEmptyImage = errors.New("empty image data")

// ArtworkProcessor prepares cover art for embedding into the MP3 file.
//
// Artwork from the song lookup service or the video thumbnail arrives
// as JPEG, PNG or WebP. It is fitted into a square of MaxSize pixels,
// keeping its aspect ratio, and re-encoded as JPEG.
//
// Example usage:
//
//	art := ioutils.NewArtworkProcessor(600)
//	cover, err := art.Prepare(ctx, downloaded)
//	if err != nil {
//	    // embed nothing, warn only
//	}
type ArtworkProcessor struct {
	MaxSize int
	Quality int
}

// NewArtworkProcessor creates an ArtworkProcessor fitting into maxSize pixels.
// A non-positive maxSize selects DefaultArtworkSize.
func NewArtworkProcessor(maxSize int) *ArtworkProcessor {
	if maxSize <= 0 {
		maxSize = DefaultArtworkSize
	}
	return &ArtworkProcessor{MaxSize: maxSize, Quality: 90}
}

// Prepare decodes data, scales it down when larger than MaxSize and
// returns JPEG-encoded bytes.
//
// Images already within bounds are only re-encoded. The Catmull-Rom
// kernel is used for scaling.
func (p *ArtworkProcessor) Prepare(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), p.MaxSize, p.MaxSize)

	var out image.Image = img
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FitWithin returns the dimensions of a width x height image scaled
// down to fit maxWidth x maxHeight. Smaller images are left as they are.
//
//	FitWithin(1500, 1000, 1000, 1000) // 1000, 666
//	FitWithin(800, 600, 1000, 1000)   // 800, 600
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	if width <= 0 || height <= 0 {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// height is the limiting side
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}
