package frame

import (
	"errors"
	"image"

	"github.com/bodgit/gifalloc"
)

// Options control how Unify reduces a frame.
type Options struct {
	// Colors is the starting color budget, at most 256
	Colors int
	Dither bool
	// Strict selects gifalloc.UnionColorMapStrict
	Strict bool
}

// Unify quantizes m and merges its palette into global. If the union would
// overflow, the frame is quantized to one color fewer and the union is
// tried again, down to two colors. It returns the merged color map, the
// quantized frame and the table translating the frame's indices into the
// merged map. gifalloc.ErrColorMapOverflow is returned if even two colors
// do not fit.
func Unify(global *gifalloc.ColorMap, m image.Image, opts Options) (*gifalloc.ColorMap, *image.Paletted, []uint8, error) {
	union := gifalloc.UnionColorMap
	if opts.Strict {
		union = gifalloc.UnionColorMapStrict
	}

	// Keep reducing the colors until the union fits
	for i := ColorBudget(opts.Colors); i >= minColors; i-- {
		pm := Quantize(m, i, opts.Dither)

		local, err := ColorMapOf(pm.Palette)
		if err != nil {
			return nil, nil, nil, err
		}

		u, trans, err := union(global, local)
		local.Free()

		switch {
		case err == nil:
			return u, pm, trans, nil
		case errors.Is(err, gifalloc.ErrColorMapOverflow):
			if len(pm.Palette) < i {
				i = len(pm.Palette)
			}
		default:
			return nil, nil, nil, err
		}
	}

	return nil, nil, nil, gifalloc.ErrColorMapOverflow
}
