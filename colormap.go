package gifalloc

type Color struct {
	R, G, B uint8
}

// ColorMap is a GIF color table. ColorCount is always a power of two
// between 1 and 256 and equal to len(Colors).
type ColorMap struct {
	ColorCount   int
	BitsPerPixel int
	Colors       []Color
}

// MakeColorMap allocates a zeroed color map with count entries. If colors
// is non-nil the first count entries are copied from it; it must hold at
// least count entries. count is not rounded up: anything other than a power
// of two between 1 and 256 returns ErrInvalidColorCount.
func MakeColorMap(count int, colors []Color) (*ColorMap, error) {
	if !validColorCount(count) {
		return nil, ErrInvalidColorCount
	}
	if err := alloc(colorBytes(count)); err != nil {
		return nil, err
	}

	cm := &ColorMap{
		ColorCount:   count,
		BitsPerPixel: BitSize(count),
		Colors:       make([]Color, count),
	}
	if colors != nil {
		copy(cm.Colors, colors[:count])
	}

	return cm, nil
}

// Free releases the color entries. The map is left empty; callers should
// drop their reference afterwards.
func (cm *ColorMap) Free() {
	if cm == nil || cm.Colors == nil {
		return
	}
	free(colorBytes(len(cm.Colors)))
	cm.Colors = nil
	cm.ColorCount = 0
	cm.BitsPerPixel = 0
}

func (cm *ColorMap) clone() (*ColorMap, error) {
	return MakeColorMap(cm.ColorCount, cm.Colors)
}

func index(p []Color, c Color) int {
	for i := range p {
		if p[i] == c {
			return i
		}
	}
	return -1
}

// UnionColorMap returns a new color map holding the colors of a followed by
// every color of b that a does not already contain, along with a table
// translating indices of b into the new map.
//
// Trailing black entries of a are treated as padding and their slots are
// reused for colors of b. Colors of b are only matched against the original
// entries of a, so a color repeated within b takes a new slot each time.
// The result is rounded up to the next power of two. ErrColorMapOverflow is
// returned if more than 256 colors would be needed.
func UnionColorMap(a, b *ColorMap) (*ColorMap, []uint8, error) {
	return union(a, b, false)
}

// UnionColorMapStrict is like UnionColorMap but matches each color of b
// against every slot of the result filled so far, so repeated colors of b
// share one slot and reclaimed padding is never referenced.
func UnionColorMapStrict(a, b *ColorMap) (*ColorMap, []uint8, error) {
	return union(a, b, true)
}

func union(a, b *ColorMap, strict bool) (*ColorMap, []uint8, error) {
	// Oversized so there is always room to merge before rounding
	size := 2 * max(a.ColorCount, b.ColorCount)
	if err := alloc(colorBytes(size)); err != nil {
		return nil, nil, err
	}
	colors := make([]Color, size)

	copy(colors, a.Colors)
	slot := a.ColorCount

	// Reclaim black padding at the end of a
	for slot > 0 && colors[slot-1] == (Color{}) {
		slot--
	}

	trans := make([]uint8, b.ColorCount)
	for i, c := range b.Colors {
		var j int
		if strict {
			j = index(colors[:slot], c)
		} else {
			j = index(a.Colors[:a.ColorCount], c)
		}
		if j >= 0 {
			trans[i] = uint8(j)
			continue
		}

		if slot >= maxColors {
			free(colorBytes(size))
			return nil, nil, ErrColorMapOverflow
		}
		colors[slot] = c
		trans[i] = uint8(slot)
		slot++
	}

	bits := BitSize(slot)
	round := 1 << bits

	for i := slot; i < round; i++ {
		colors[i] = Color{}
	}
	if round < size {
		colors = append([]Color(nil), colors[:round]...)
		free(colorBytes(size - round))
	}

	return &ColorMap{
		ColorCount:   round,
		BitsPerPixel: bits,
		Colors:       colors,
	}, trans, nil
}
