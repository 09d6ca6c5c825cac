package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	"image/png"
	"math"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/handiism/albumart/internal/model"
)

// DefaultCoverSize is the edge length of a normalized cover in pixels.
const DefaultCoverSize = 300

// MaxSourcePixels is the largest image, in pixels, Normalize will decode.
const MaxSourcePixels = 1 << 26

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Normalize covers to a fixed square (cover fit + entropy crop, PNG output)
//   - Detect the MIME type of raw cover bytes
//   - Read image dimensions without a full decode
//
// Example usage:
//
//	svc := NewImageService()
//
//	// 1200x800 JPEG in, 300x300 PNG out
//	square, err := svc.Normalize(ctx, imageData, 300)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Normalize scales and crops an image to exactly size×size pixels.
//
// The image is cropped to a square of its shorter side and that square is
// resampled to size. Along the longer side the crop keeps the window whose
// luminance histogram has the highest entropy, so the most detailed part of
// the picture survives rather than the centre. When every window scores the
// same the centred one wins.
//
// The window is scored on a copy of the source that is never larger than the
// source, and only the final square is resampled, so memory stays bounded by
// the decoded source however extreme its aspect ratio. Sources with more than
// MaxSourcePixels pixels are rejected before decoding.
//
// Parameters:
//   - ctx: Context for cancellation (checked between decode and encode)
//   - data: Original image data (JPEG, PNG, GIF, BMP or WebP)
//   - size: Edge length of the output square in pixels
//
// Returns the result as PNG-encoded bytes regardless of the input format.
// Decode and encode failures are marked model.ErrImageProcessing.
//
// Example:
//
//	// A 600x400 image keeps its most detailed 400x400 square, which is
//	// then resampled to 300x300.
//	square, err := svc.Normalize(ctx, imageData, 300)
func (s *ImageService) Normalize(ctx context.Context, data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, model.Wrap(model.ErrImageProcessing, fmt.Sprintf("invalid cover size %d", size), "", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, model.Wrap(model.ErrImageProcessing, "decode", "", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, model.Wrap(model.ErrImageProcessing, fmt.Sprintf("unsupported image size %dx%d", cfg.Width, cfg.Height), "", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.Wrap(model.ErrImageProcessing, "decode", "", err)
	}

	dst := coverCrop(img, size)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, model.Wrap(model.ErrImageProcessing, "encode", "", err)
	}

	return buf.Bytes(), nil
}

// Dimensions returns the width and height of an encoded image.
func (s *ImageService) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, model.Wrap(model.ErrImageProcessing, "decode config", "", err)
	}
	return cfg.Width, cfg.Height, nil
}

// DetectMIME returns the MIME type of raw image bytes.
//
// Data that does not sniff as an image is reported as image/jpeg, the type
// most players assume for untyped APIC frames.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return model.MIMEJPEG
	}
	mtype := mimetype.Detect(data).String()
	if i := strings.IndexByte(mtype, ';'); i >= 0 {
		mtype = mtype[:i]
	}
	if !strings.HasPrefix(mtype, "image/") {
		return model.MIMEJPEG
	}
	return mtype
}

// coverCrop picks the most detailed square of img and resamples it to
// size×size.
func coverCrop(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	side := min(width, height)

	crop := image.Rect(0, 0, side, side).Add(bounds.Min)
	if width != height {
		horizontal := width > height
		analysis := analysisImage(img, size)
		ab := analysis.Bounds()
		window := min(ab.Dx(), ab.Dy())
		off := bestWindow(analysis, window, horizontal)

		long, analysisLong := height, ab.Dy()
		if horizontal {
			long, analysisLong = width, ab.Dx()
		}

		// Map the window back onto the source; both ends of the range line up.
		shift := 0
		if analysisLong > window {
			shift = int(math.Round(float64(off) * float64(long-side) / float64(analysisLong-window)))
		}
		shift = min(max(shift, 0), long-side)

		if horizontal {
			crop = crop.Add(image.Pt(shift, 0))
		} else {
			crop = crop.Add(image.Pt(0, shift))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if side == size {
		draw.Draw(dst, dst.Bounds(), img, crop.Min, draw.Src)
		return dst
	}

	// Use Catmull-Rom for high-quality scaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}

// analysisImage returns img as RGBA, downscaled so that its shorter side is
// size when it is larger than that. It is never upscaled.
func analysisImage(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := math.Min(1, float64(size)/float64(min(width, height)))
	w := max(1, int(math.Round(float64(width)*scale)))
	h := max(1, int(math.Round(float64(height)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == width && h == height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// bestWindow slides a window of size lines along one axis and returns the
// offset with maximal entropy. A slide removes the line leaving the window
// and adds the one entering it, so only one histogram is ever held.
func bestWindow(img *image.RGBA, size int, horizontal bool) int {
	bounds := img.Bounds()
	lines := bounds.Dy()
	if horizontal {
		lines = bounds.Dx()
	}
	if lines <= size {
		return 0
	}

	var window [256]int32
	for i := 0; i < size; i++ {
		lineHist(img, i, horizontal, &window, 1)
	}

	const epsilon = 1e-9
	center := (lines - size) / 2
	best, bestEntropy := 0, entropy(&window)
	for off := 1; off+size <= lines; off++ {
		lineHist(img, off-1, horizontal, &window, -1)
		lineHist(img, off+size-1, horizontal, &window, 1)

		e := entropy(&window)
		switch {
		case e > bestEntropy+epsilon:
			best, bestEntropy = off, e
		case math.Abs(e-bestEntropy) <= epsilon && distance(off, center) < distance(best, center):
			best = off
		}
	}

	return best
}

// lineHist adds (sign 1) or removes (sign -1) the luminance of every pixel
// of line i to hist. Columns are lines when horizontal is set.
func lineHist(img *image.RGBA, i int, horizontal bool, hist *[256]int32, sign int32) {
	bounds := img.Bounds()
	if horizontal {
		for y := 0; y < bounds.Dy(); y++ {
			hist[luminance(img.Pix[y*img.Stride+i*4:])] += sign
		}
		return
	}
	row := img.Pix[i*img.Stride:]
	for x := 0; x < bounds.Dx(); x++ {
		hist[luminance(row[x*4:])] += sign
	}
}

func luminance(p []uint8) uint32 {
	return (299*uint32(p[0]) + 587*uint32(p[1]) + 114*uint32(p[2])) / 1000
}

// entropy returns the Shannon entropy in bits of a histogram.
func entropy(hist *[256]int32) float64 {
	var total int64
	for _, n := range hist {
		total += int64(n)
	}
	if total == 0 {
		return 0
	}

	var e float64
	for _, n := range hist {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
