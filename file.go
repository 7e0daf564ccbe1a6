package gifalloc

// File is a multi-frame GIF held in memory. It owns its global color map
// and every saved image.
type File struct {
	Width, Height   int
	ColorResolution int
	BackgroundColor int
	ColorMap        *ColorMap
	SavedImages     []*SavedImage
}

// NewFile returns an empty file with the given logical screen size and
// global color map, which may be nil.
func NewFile(width, height int, colorMap *ColorMap) *File {
	f := &File{
		Width:           width,
		Height:          height,
		ColorResolution: 8,
		ColorMap:        colorMap,
	}
	if colorMap != nil {
		f.ColorResolution = colorMap.BitsPerPixel
	}
	return f
}

func (f *File) ImageCount() int {
	if f == nil {
		return 0
	}
	return len(f.SavedImages)
}

// MakeSavedImage appends a new saved image to the file and returns it. If
// copyFrom is non-nil the new image is a deep copy of it: the local color
// map, raster and every extension payload are duplicated. On failure the
// appended image is removed again.
func (f *File) MakeSavedImage(copyFrom *SavedImage) (*SavedImage, error) {
	return f.makeSavedImage(copyFrom, false)
}

// MakeSavedImageAliased is MakeSavedImage with the historical copy
// semantics: the extension block list is duplicated but the payloads are
// shared with copyFrom and flagged as aliased. Only the color map and
// raster are independent.
func (f *File) MakeSavedImageAliased(copyFrom *SavedImage) (*SavedImage, error) {
	return f.makeSavedImage(copyFrom, true)
}

func (f *File) makeSavedImage(from *SavedImage, aliased bool) (*SavedImage, error) {
	img := new(SavedImage)
	f.SavedImages = append(f.SavedImages, img)

	if from == nil {
		return img, nil
	}

	*img = *from
	img.ColorMap, img.RasterBits, img.ExtensionBlocks = nil, nil, nil

	if from.ColorMap != nil {
		cm, err := from.ColorMap.clone()
		if err != nil {
			f.FreeLastSavedImage()
			return nil, err
		}
		img.ColorMap = cm
	}

	if err := img.AllocRaster(); err != nil {
		f.FreeLastSavedImage()
		return nil, err
	}
	copy(img.RasterBits, from.RasterBits)

	if from.ExtensionBlocks != nil {
		img.ExtensionBlocks = make([]ExtensionBlock, 0, len(from.ExtensionBlocks))
		for _, b := range from.ExtensionBlocks {
			if aliased {
				img.ExtensionBlocks = append(img.ExtensionBlocks, ExtensionBlock{
					Function: b.Function,
					Bytes:    b.Bytes,
					aliased:  true,
				})
				continue
			}
			if err := alloc(len(b.Bytes)); err != nil {
				f.FreeLastSavedImage()
				return nil, err
			}
			dup := ExtensionBlock{
				Function: b.Function,
				Bytes:    make([]byte, len(b.Bytes)),
			}
			copy(dup.Bytes, b.Bytes)
			img.ExtensionBlocks = append(img.ExtensionBlocks, dup)
		}
	}

	return img, nil
}

// FreeLastSavedImage releases the most recently appended saved image and
// removes it from the file. The backing array is not shrunk. It does
// nothing if there are no images.
func (f *File) FreeLastSavedImage() {
	if f == nil || len(f.SavedImages) == 0 {
		return
	}

	n := len(f.SavedImages) - 1
	f.SavedImages[n].free()
	f.SavedImages[n] = nil
	f.SavedImages = f.SavedImages[:n]
}

// FreeSavedImages releases every saved image and the image list itself.
func (f *File) FreeSavedImages() {
	if f == nil || f.SavedImages == nil {
		return
	}

	for _, img := range f.SavedImages {
		if img != nil {
			img.free()
		}
	}
	f.SavedImages = nil
}

// Free releases the saved images and the global color map.
func (f *File) Free() {
	if f == nil {
		return
	}
	f.FreeSavedImages()
	if f.ColorMap != nil {
		f.ColorMap.Free()
		f.ColorMap = nil
	}
}
