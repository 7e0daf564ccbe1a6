/*
Package gifalloc implements the in-memory object model of a multi-frame GIF
file: color maps, saved images and their extension blocks, together with the
color map union used when two images with different palettes have to share
one table of at most 256 colors.

Nothing here decodes or encodes the LZW raster stream; the package only
manages the structures an encoder or decoder works with. None of the types
are safe for concurrent use.
*/
package gifalloc

const maxColors = 256

// BitSize returns the smallest b in [1, 8] such that 1<<b >= n. For n
// greater than 256 no such b exists and 9 is returned.
func BitSize(n int) int {
	var i int
	for i = 1; i <= 8; i++ {
		if 1<<i >= n {
			break
		}
	}
	return i
}

func validColorCount(n int) bool {
	return n == 1 || (n > 1 && n <= maxColors && n == 1<<BitSize(n))
}
