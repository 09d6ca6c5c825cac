package ioutils

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/albumart/internal/model"
)

// noisy returns the luminance of a detailed pixel. Along any column the
// values cycle through all 256 levels.
func noisy(x, y int) uint8 {
	return uint8((x*37 + y*91) % 256)
}

// halfDetailed builds an image that is flat gray except for a detailed band
// of band lines starting at start along the given axis.
func halfDetailed(width, height, start, band int, horizontal bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(128)
			pos := y
			if horizontal {
				pos = x
			}
			if pos >= start && pos < start+band {
				v = noisy(x, y)
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func solid(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestImageService_Normalize_Dimensions(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{"landscape png", encodePNG(t, solid(600, 400))},
		{"portrait jpeg", encodeJPEG(t, solid(400, 1000))},
		{"small upscaled", encodePNG(t, solid(50, 80))},
		{"already square", encodePNG(t, solid(300, 300))},
		{"large square", encodeJPEG(t, solid(1200, 1200))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Normalize(ctx, tt.data, DefaultCoverSize)
			require.NoError(t, err)

			cfg, format := decodeConfig(t, out)
			assert.Equal(t, "png", format)
			assert.Equal(t, 300, cfg.Width)
			assert.Equal(t, 300, cfg.Height)
		})
	}
}

func TestImageService_Normalize_Idempotent(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	first, err := svc.Normalize(ctx, encodeJPEG(t, solid(640, 480)), 300)
	require.NoError(t, err)

	second, err := svc.Normalize(ctx, first, 300)
	require.NoError(t, err)

	cfg, _ := decodeConfig(t, second)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, model.MIMEPNG, DetectMIME(second))
}

func TestImageService_Normalize_KeepsDetailedRegion(t *testing.T) {
	svc := NewImageService()

	// Detail sits in the rightmost third; a centre crop would be mostly flat.
	src := halfDetailed(900, 300, 600, 300, true)
	out, err := svc.Normalize(context.Background(), encodePNG(t, src), 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	levels := make(map[uint8]struct{})
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			levels[g.Y] = struct{}{}
		}
	}
	assert.Greater(t, len(levels), 100, "crop should keep the detailed band")
}

func TestImageService_Normalize_Errors(t *testing.T) {
	svc := NewImageService()

	_, err := svc.Normalize(context.Background(), []byte("definitely not an image"), 300)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrImageProcessing)

	_, err = svc.Normalize(context.Background(), encodePNG(t, solid(10, 10)), 0)
	assert.ErrorIs(t, err, model.ErrImageProcessing)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Normalize(ctx, encodePNG(t, solid(10, 10)), 300)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageService_Normalize_ExtremeAspectRatio(t *testing.T) {
	svc := NewImageService()

	tests := []struct {
		name string
		img  *image.RGBA
	}{
		{"one pixel wide", halfDetailed(1, 1000, 400, 100, false)},
		{"one pixel tall", halfDetailed(1000, 1, 400, 100, true)},
		{"thin strip", halfDetailed(3, 20000, 0, 0, false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodePNG(t, tt.img)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			out, err := svc.Normalize(context.Background(), data, DefaultCoverSize)
			runtime.ReadMemStats(&after)
			require.NoError(t, err)

			cfg, format := decodeConfig(t, out)
			assert.Equal(t, "png", format)
			assert.Equal(t, 300, cfg.Width)
			assert.Equal(t, 300, cfg.Height)

			allocated := after.TotalAlloc - before.TotalAlloc
			assert.Less(t, allocated, uint64(32<<20), "allocated %d bytes", allocated)
		})
	}
}

// withDimensions rewrites the IHDR size of an encoded PNG.
func withDimensions(t *testing.T, data []byte, width, height uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], width)
	binary.BigEndian.PutUint32(out[20:24], height)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestImageService_Normalize_RejectsOversizedSource(t *testing.T) {
	svc := NewImageService()
	data := withDimensions(t, encodePNG(t, solid(4, 4)), 100000, 100000)

	w, h, err := svc.Dimensions(data)
	require.NoError(t, err)
	require.Greater(t, int64(w)*int64(h), int64(MaxSourcePixels))

	_, err = svc.Normalize(context.Background(), data, DefaultCoverSize)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrImageProcessing)
	assert.Contains(t, err.Error(), "100000x100000")
}

func TestCoverCrop_MapsWindowToSource(t *testing.T) {
	// 1800x600 is scored at 900x300; the detailed band is the right third.
	src := halfDetailed(1800, 600, 1200, 600, true)
	dst := coverCrop(src, 300)
	require.Equal(t, image.Rect(0, 0, 300, 300), dst.Bounds())

	levels := make(map[uint8]struct{})
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			levels[dst.Pix[y*dst.Stride+x*4]] = struct{}{}
		}
	}
	assert.Greater(t, len(levels), 100, "crop should keep the detailed band")
}

func TestBestWindow(t *testing.T) {
	tests := []struct {
		name       string
		img        *image.RGBA
		horizontal bool
		want       int
	}{
		{"detail right", halfDetailed(900, 300, 600, 300, true), true, 600},
		{"detail left", halfDetailed(900, 300, 0, 300, true), true, 0},
		{"detail middle rows", halfDetailed(300, 900, 300, 300, false), false, 300},
		{"flat centres", halfDetailed(900, 300, 0, 0, true), true, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bestWindow(tt.img, 300, tt.horizontal))
		})
	}
}

func TestEntropy(t *testing.T) {
	var flat [256]int32
	flat[10] = 100
	assert.Zero(t, entropy(&flat))

	var uniform [256]int32
	for i := range uniform {
		uniform[i] = 4
	}
	assert.InDelta(t, 8.0, entropy(&uniform), 1e-9)

	var empty [256]int32
	assert.Zero(t, entropy(&empty))
}

func TestImageService_Dimensions(t *testing.T) {
	svc := NewImageService()

	w, h, err := svc.Dimensions(encodePNG(t, solid(40, 20)))
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)

	_, _, err = svc.Dimensions([]byte("nope"))
	assert.ErrorIs(t, err, model.ErrImageProcessing)
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNG(t, solid(4, 4)), "image/png"},
		{"jpeg", encodeJPEG(t, solid(4, 4)), "image/jpeg"},
		{"text falls back", []byte("hello world"), "image/jpeg"},
		{"empty falls back", nil, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.data))
		})
	}
}
