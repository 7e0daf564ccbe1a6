package gifalloc

// ImageDesc describes the placement of a saved image on the logical
// screen. A nil ColorMap means the image uses the file's global color map.
type ImageDesc struct {
	Left, Top     int
	Width, Height int
	Interlace     bool
	ColorMap      *ColorMap
}

// SavedImage is one frame of a File. RasterBits holds Width*Height color
// indices into the local color map, or the global one if there is none.
type SavedImage struct {
	ImageDesc
	RasterBits      []byte
	Function        int
	ExtensionBlocks []ExtensionBlock
}

// AllocRaster allocates a zeroed raster buffer sized to the image's width
// and height, releasing any previous buffer.
func (img *SavedImage) AllocRaster() error {
	n := img.Width * img.Height
	if err := alloc(n); err != nil {
		return err
	}
	img.freeRaster()
	img.RasterBits = make([]byte, n)
	return nil
}

func (img *SavedImage) freeRaster() {
	if img.RasterBits == nil {
		return
	}
	free(len(img.RasterBits))
	img.RasterBits = nil
}

// ApplyTranslation rewrites every raster index through t, usually the table
// returned by UnionColorMap. Every index in the raster must be valid in t;
// ApplyTranslationChecked verifies that first.
func (img *SavedImage) ApplyTranslation(t []uint8) {
	for i, b := range img.RasterBits {
		img.RasterBits[i] = t[b]
	}
}

// ApplyTranslationChecked is ApplyTranslation for rasters of unknown
// origin. It returns ErrBadIndex, leaving the raster untouched, if any
// index has no entry in t.
func (img *SavedImage) ApplyTranslationChecked(t []uint8) error {
	for _, b := range img.RasterBits {
		if int(b) >= len(t) {
			return ErrBadIndex
		}
	}
	img.ApplyTranslation(t)
	return nil
}

func (img *SavedImage) free() {
	if img.ColorMap != nil {
		img.ColorMap.Free()
		img.ColorMap = nil
	}
	img.freeRaster()
	img.FreeExtensions()
}
