/*
Package frame converts between image.Image values and gifalloc saved images.

Images with more colors than a GIF color map can hold are reduced with a
median cut quantizer. Unify folds a frame's palette into a file's global
color map, reducing the frame's colors until the union fits.
*/
package frame

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/gifalloc"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const (
	maxColors = 256
	minColors = 2
)

var (
	errTooManyColors = errors.New("frame: palette has more than 256 colors")
	errNoColorMap    = errors.New("frame: image has no color map")
	errBadPixel      = errors.New("frame: invalid pixel value")
)

func rgb(c color.Color) gifalloc.Color {
	r, g, b, _ := c.RGBA()
	return gifalloc.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// ColorMapOf converts p to a color map, padding it with black up to the
// next power of two.
func ColorMapOf(p color.Palette) (*gifalloc.ColorMap, error) {
	if len(p) > maxColors {
		return nil, errTooManyColors
	}

	n := 1
	if len(p) > 1 {
		n = 1 << gifalloc.BitSize(len(p))
	}

	colors := make([]gifalloc.Color, n)
	for i, c := range p {
		colors[i] = rgb(c)
	}

	return gifalloc.MakeColorMap(n, colors)
}

func Palette(cm *gifalloc.ColorMap) color.Palette {
	p := make(color.Palette, len(cm.Colors))
	for i, c := range cm.Colors {
		p[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return p
}

// ColorBudget clamps a requested number of colors per frame to [2, 256].
// Zero or less selects the full 256.
func ColorBudget(n int) int {
	switch {
	case n <= 0 || n > maxColors:
		return maxColors
	case n < minColors:
		return minColors
	}
	return n
}

// Returns the colors of m in order of first appearance, or false if there
// are more than limit of them
func uniqueColors(m image.Image, limit int) (color.Palette, bool) {
	seen := make(map[gifalloc.Color]struct{})
	var p color.Palette

	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := rgb(m.At(x, y))
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == limit {
				return nil, false
			}
			seen[c] = struct{}{}
			p = append(p, color.RGBA{c.R, c.G, c.B, 0xff})
		}
	}

	return p, true
}

// Quantize returns m as a paletted image with at most colors colors. An
// image that already fits is mapped onto its exact colors, anything else is
// reduced with a median cut quantizer and optionally dithered.
func Quantize(m image.Image, colors int, dither bool) *image.Paletted {
	colors = ColorBudget(colors)

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= colors {
		return pm
	}

	b := m.Bounds()

	p, ok := uniqueColors(m, colors)
	if ok {
		pm := image.NewPaletted(b, p)
		draw.Draw(pm, b, m, b.Min, draw.Src)
		return pm
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	if dither {
		draw.FloydSteinberg.Draw(pm, b, m, b.Min)
	} else {
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm
}

// Load sets the placement, raster and local color map of img from m.
func Load(img *gifalloc.SavedImage, m *image.Paletted) error {
	cm, err := ColorMapOf(m.Palette)
	if err != nil {
		return err
	}

	b := m.Bounds()
	img.Left, img.Top = b.Min.X, b.Min.Y
	img.Width, img.Height = b.Dx(), b.Dy()

	if err := img.AllocRaster(); err != nil {
		cm.Free()
		return err
	}
	for y := 0; y < img.Height; y++ {
		i := m.PixOffset(b.Min.X, b.Min.Y+y)
		copy(img.RasterBits[y*img.Width:(y+1)*img.Width], m.Pix[i:i+img.Width])
	}

	if img.ColorMap != nil {
		img.ColorMap.Free()
	}
	img.ColorMap = cm

	return nil
}

// ToPaletted returns img as a paletted image, using global when img has no
// local color map.
func ToPaletted(img *gifalloc.SavedImage, global *gifalloc.ColorMap) (*image.Paletted, error) {
	cm := img.ColorMap
	if cm == nil {
		cm = global
	}
	if cm == nil {
		return nil, errNoColorMap
	}

	for _, p := range img.RasterBits {
		if int(p) >= cm.ColorCount {
			return nil, errBadPixel
		}
	}

	r := image.Rect(img.Left, img.Top, img.Left+img.Width, img.Top+img.Height)
	pm := image.NewPaletted(r, Palette(cm))
	copy(pm.Pix, img.RasterBits)

	return pm, nil
}
