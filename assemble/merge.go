package assemble

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/frame"
)

// merger appends frames to a file, folding each palette into the global
// color map. A union is only accepted if every global index already
// referenced by a frame keeps its color and the new frame translates onto
// exactly its own colors; trailing black entries are reclaimed by the union
// and may be in use.
type merger struct {
	f     *gifalloc.File
	opts  frame.Options
	inUse [256]bool
}

func newMerger(f *gifalloc.File, opts frame.Options) *merger {
	return &merger{
		f:    f,
		opts: opts,
	}
}

func rgb(c color.Color) gifalloc.Color {
	r, g, b, _ := c.RGBA()
	return gifalloc.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

func (m *merger) mark(raster []byte) {
	for _, p := range raster {
		m.inUse[p] = true
	}
}

func (m *merger) safe(u *gifalloc.ColorMap, pm *image.Paletted, trans []uint8) bool {
	old := m.f.ColorMap
	for i, used := range m.inUse {
		if !used {
			continue
		}
		if i >= u.ColorCount || i >= old.ColorCount || u.Colors[i] != old.Colors[i] {
			return false
		}
	}

	var checked [256]bool
	for _, p := range pm.Pix {
		if checked[p] {
			continue
		}
		checked[p] = true
		if int(p) >= len(trans) || int(p) >= len(pm.Palette) {
			return false
		}
		if u.Colors[trans[p]] != rgb(pm.Palette[p]) {
			return false
		}
	}

	return true
}

// add appends pm as a new frame and reports whether it shares the global
// color map.
func (m *merger) add(pm *image.Paletted) (bool, error) {
	img, err := m.f.MakeSavedImage(nil)
	if err != nil {
		return false, err
	}

	// The first frame provides the global color map
	if m.f.ColorMap == nil {
		if err := frame.Load(img, pm); err != nil {
			m.f.FreeLastSavedImage()
			return false, err
		}
		m.f.ColorMap, img.ColorMap = img.ColorMap, nil
		m.mark(img.RasterBits)
		return true, nil
	}

	u, upm, trans, err := frame.Unify(m.f.ColorMap, pm, m.opts)
	switch {
	case err == nil && m.safe(u, upm, trans):
		if err := frame.Load(img, upm); err != nil {
			u.Free()
			m.f.FreeLastSavedImage()
			return false, err
		}
		img.ApplyTranslation(trans)
		img.ColorMap.Free()
		img.ColorMap = nil

		m.f.ColorMap.Free()
		m.f.ColorMap = u
		m.mark(img.RasterBits)
		return true, nil
	case err == nil:
		u.Free()
	case !errors.Is(err, gifalloc.ErrColorMapOverflow):
		m.f.FreeLastSavedImage()
		return false, err
	}

	if err := frame.Load(img, pm); err != nil {
		m.f.FreeLastSavedImage()
		return false, err
	}

	return false, nil
}
