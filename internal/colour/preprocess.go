package colour

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"palette-wardrobe/stylist/internal/models/entities"

	"github.com/disintegration/gift"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when upload bytes are not a readable image.
var ErrDecode = errors.New("image could not be decoded")

// Sentinel marks a pixel removed as background.
var Sentinel = entities.RGB{}

const (
	DefaultMaxDimension        = 160
	DefaultBackgroundTolerance = 40
	defaultAlphaThreshold      = 128

	// Removing more than this share of an opaque image means the garment
	// fills the frame and the border colour is the garment itself.
	maxBackgroundShare = 0.95

	patchesPerEdge = 8
)

type PreprocessOptions struct {
	MaxDimension        int
	BackgroundTolerance int
	AlphaThreshold      uint8
}

func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		MaxDimension:        DefaultMaxDimension,
		BackgroundTolerance: DefaultBackgroundTolerance,
		AlphaThreshold:      defaultAlphaThreshold,
	}
}

// PixelField is a row-major RGB image where Sentinel pixels are background.
type PixelField struct {
	Width  int
	Height int
	Pixels []entities.RGB
}

func (f *PixelField) at(x, y int) entities.RGB { return f.Pixels[y*f.Width+x] }

// Preprocessor isolates the garment in a photo.
type Preprocessor struct {
	opts PreprocessOptions
}

func NewPreprocessor(opts PreprocessOptions) *Preprocessor {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.BackgroundTolerance < 0 {
		opts.BackgroundTolerance = DefaultBackgroundTolerance
	}
	if opts.AlphaThreshold == 0 {
		opts.AlphaThreshold = defaultAlphaThreshold
	}
	return &Preprocessor{opts: opts}
}

// Process decodes data and returns its foreground-only pixel field.
func (p *Preprocessor) Process(data []byte) (*PixelField, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return p.ProcessImage(img), nil
}

// ProcessImage downscales img and replaces background pixels with Sentinel.
// Transparent pixels are background. Opaque images have the region
// connected to the border and close to the border colour removed.
func (p *Preprocessor) ProcessImage(img image.Image) *PixelField {
	small := p.downscale(img)
	field, transparent := toField(small, p.opts.AlphaThreshold)
	if !transparent && field.Width > 0 && field.Height > 0 {
		p.removeBackground(field)
	}
	return field
}

func (p *Preprocessor) downscale(img image.Image) *image.NRGBA {
	b := img.Bounds()
	g := gift.New()
	if b.Dx() > p.opts.MaxDimension || b.Dy() > p.opts.MaxDimension {
		g.Add(gift.ResizeToFit(p.opts.MaxDimension, p.opts.MaxDimension, gift.LinearResampling))
	}
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

func toField(img *image.NRGBA, alphaThreshold uint8) (*PixelField, bool) {
	b := img.Bounds()
	field := &PixelField{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]entities.RGB, 0, b.Dx()*b.Dy()),
	}

	transparent := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A < 255 {
				transparent = true
			}
			if c.A < alphaThreshold {
				field.Pixels = append(field.Pixels, Sentinel)
				continue
			}
			field.Pixels = append(field.Pixels, entities.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return field, transparent
}

func (p *Preprocessor) removeBackground(field *PixelField) {
	bg := sampleBackground(field)
	tol := p.opts.BackgroundTolerance

	w, h := field.Width, field.Height
	visited := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))

	push := func(x, y int) {
		i := y*w + x
		if visited[i] || !withinTolerance(field.Pixels[i], bg, tol) {
			return
		}
		visited[i] = true
		queue = append(queue, i)
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for head := 0; head < len(queue); head++ {
		x, y := queue[head]%w, queue[head]/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}

	if float64(len(queue)) > maxBackgroundShare*float64(w*h) {
		return
	}
	for _, i := range queue {
		field.Pixels[i] = Sentinel
	}
}

// sampleBackground averages small patches spread along the four edges and
// returns the patch of median brightness.
func sampleBackground(field *PixelField) entities.RGB {
	w, h := field.Width, field.Height
	size := min(w, h) / 20
	if size < 1 {
		size = 1
	}

	type patch struct {
		c          entities.RGB
		brightness int
	}
	var patches []patch

	average := func(x0, y0 int) {
		var r, g, b, n int
		for y := y0; y < y0+size && y < h; y++ {
			for x := x0; x < x0+size && x < w; x++ {
				c := field.at(x, y)
				r += int(c.R)
				g += int(c.G)
				b += int(c.B)
				n++
			}
		}
		if n == 0 {
			return
		}
		c := entities.RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
		patches = append(patches, patch{c: c, brightness: int(c.R) + int(c.G) + int(c.B)})
	}

	for i := 0; i < patchesPerEdge; i++ {
		fx := (w - size) * i / (patchesPerEdge - 1)
		fy := (h - size) * i / (patchesPerEdge - 1)
		average(fx, 0)
		average(fx, h-size)
		average(0, fy)
		average(w-size, fy)
	}

	sort.SliceStable(patches, func(i, j int) bool {
		return patches[i].brightness < patches[j].brightness
	})
	return patches[len(patches)/2].c
}

func withinTolerance(c, bg entities.RGB, tol int) bool {
	return absDiff(c.R, bg.R) <= tol && absDiff(c.G, bg.G) <= tol && absDiff(c.B, bg.B) <= tol
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
