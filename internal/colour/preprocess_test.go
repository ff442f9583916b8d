package colour

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"palette-wardrobe/stylist/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// framed draws a size×size square of fg centred on a w×h canvas of bg.
func framed(w, h, size int, bg, fg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	x0, y0 := (w-size)/2, (h-size)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= x0 && x < x0+size && y >= y0 && y < y0+size {
				img.SetNRGBA(x, y, fg)
			} else {
				img.SetNRGBA(x, y, bg)
			}
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

func countPixels(field *PixelField, c entities.RGB) int {
	n := 0
	for _, px := range field.Pixels {
		if px == c {
			n++
		}
	}
	return n
}

var (
	opaqueRed = color.NRGBA{R: 200, G: 20, B: 20, A: 255}
	offWhite  = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
)

func TestProcessRejectsUndecodableInput(t *testing.T) {
	p := NewPreprocessor(DefaultPreprocessOptions())

	_, err := p.Process([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = p.Process(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestProcessUsesAlphaAsMask(t *testing.T) {
	seeThrough := color.NRGBA{R: 10, G: 200, B: 10, A: 0}
	data := encodePNG(t, framed(20, 20, 10, seeThrough, opaqueRed))

	field, err := NewPreprocessor(DefaultPreprocessOptions()).Process(data)
	require.NoError(t, err)

	assert.Equal(t, 20, field.Width)
	assert.Equal(t, 20, field.Height)
	assert.Equal(t, 100, countPixels(field, entities.RGB{R: 200, G: 20, B: 20}))
	assert.Equal(t, 300, countPixels(field, Sentinel))
}

func TestProcessRemovesBorderBackground(t *testing.T) {
	data := encodePNG(t, framed(40, 40, 20, offWhite, opaqueRed))

	field, err := NewPreprocessor(DefaultPreprocessOptions()).Process(data)
	require.NoError(t, err)

	assert.Equal(t, 400, countPixels(field, entities.RGB{R: 200, G: 20, B: 20}))
	assert.Equal(t, 1200, countPixels(field, Sentinel))
}

func TestProcessKeepsFrameFillingGarment(t *testing.T) {
	blue := color.NRGBA{R: 20, G: 30, B: 200, A: 255}
	data := encodePNG(t, framed(30, 30, 30, blue, blue))

	field, err := NewPreprocessor(DefaultPreprocessOptions()).Process(data)
	require.NoError(t, err)

	assert.Equal(t, 900, countPixels(field, entities.RGB{R: 20, G: 30, B: 200}))
	assert.Zero(t, countPixels(field, Sentinel))
}

func TestProcessDownscalesLargeImages(t *testing.T) {
	img := framed(400, 200, 100, offWhite, opaqueRed)

	field := NewPreprocessor(PreprocessOptions{MaxDimension: 100}).ProcessImage(img)

	assert.Equal(t, 100, field.Width)
	assert.Equal(t, 50, field.Height)
	assert.Len(t, field.Pixels, 100*50)
}
