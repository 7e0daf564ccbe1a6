package assemble

import (
	"image"
	"image/gif"
	"io"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/frame"
)

// FrameDelay returns the delay in hundredths of a second stored in the
// first graphics control extension of img, or zero.
func FrameDelay(img *gifalloc.SavedImage) int {
	for _, eb := range img.ExtensionBlocks {
		if eb.Function == gifalloc.GraphicsExtFuncCode && eb.ByteCount() >= 3 {
			return int(eb.Bytes[1]) | int(eb.Bytes[2])<<8
		}
	}
	return 0
}

// Encode writes f to w as an animated GIF. loop follows the
// gif.GIF.LoopCount convention.
func Encode(w io.Writer, f *gifalloc.File, loop int) error {
	g := &gif.GIF{
		LoopCount: loop,
		Config: image.Config{
			Width:  f.Width,
			Height: f.Height,
		},
	}
	if f.ColorMap != nil {
		g.Config.ColorModel = frame.Palette(f.ColorMap)
	}

	for _, img := range f.SavedImages {
		pm, err := frame.ToPaletted(img, f.ColorMap)
		if err != nil {
			return err
		}
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, FrameDelay(img))
	}

	return gif.EncodeAll(w, g)
}
