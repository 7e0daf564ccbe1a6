package gifalloc

import "errors"

var (
	// ErrInvalidColorCount is returned when a color map size is not a
	// power of two between 1 and 256.
	ErrInvalidColorCount = errors.New("gifalloc: invalid color count")

	ErrAllocation = errors.New("gifalloc: allocation failed")

	// ErrColorMapOverflow is returned when a union needs more than 256
	// colors.
	ErrColorMapOverflow = errors.New("gifalloc: color map union exceeds 256 colors")

	// ErrBadIndex is returned by the checked translation when a raster
	// byte has no entry in the translation table.
	ErrBadIndex = errors.New("gifalloc: raster index outside translation table")

	ErrBlockTooLarge = errors.New("gifalloc: extension block exceeds 255 bytes")
	ErrBadExtension  = errors.New("gifalloc: malformed extension")
)
