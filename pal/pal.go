/*
Package pal reads and writes Microsoft RIFF palette files.

A palette file is a RIFF form of type "PAL " holding one or more "data"
chunks, each a LOGPALETTE: a version word, an entry count and four bytes per
entry (red, green, blue, flags).
*/
package pal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/gifalloc"
	"golang.org/x/image/riff"
)

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

var errTooManyColors = errors.New("pal: palette has more than 256 entries")

// Read returns every palette found in r as a color map. Palettes whose
// entry count is not a power of two are padded with black.
func Read(r io.Reader) ([]*gifalloc.ColorMap, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("pal: could not open RIFF stream: %w", err)
	}
	if formType != palType {
		return nil, fmt.Errorf("pal: unsupported RIFF content type: %q", string(formType[:]))
	}

	return readPalettes(rd)
}

func readPalettes(r *riff.Reader) ([]*gifalloc.ColorMap, error) {
	var res []*gifalloc.ColorMap

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("pal: could not read chunk %d: %w", len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("pal: could not read list in chunk %d: %w", len(res), err)
			}
			if listType != palType {
				return res, fmt.Errorf("pal: unsupported list type in chunk %d: %q", len(res), string(listType[:]))
			}
			sub, err := readPalettes(list)
			res = append(res, sub...)
			if err != nil {
				return res, err
			}
		case dataType:
			cm, err := readPalette(data)
			if err != nil {
				return res, fmt.Errorf("pal: chunk %d: %w", len(res), err)
			}
			res = append(res, cm)
		default:
			return res, fmt.Errorf("pal: unsupported chunk type in chunk %d: %q", len(res), string(id[:]))
		}
	}

	return res, nil
}

func readPalette(r io.Reader) (*gifalloc.ColorMap, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	if v := binary.LittleEndian.Uint16(hdr[0:2]); v != palVersion {
		return nil, fmt.Errorf("unsupported palette version: %#04x", v)
	}

	count := int(binary.LittleEndian.Uint16(hdr[2:4]))
	if count > 256 {
		return nil, errTooManyColors
	}

	colors := make([]gifalloc.Color, count)
	var entry [4]byte
	for i := range colors {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return nil, fmt.Errorf("could not read color %d/%d: %w", i, count, err)
		}
		colors[i] = gifalloc.Color{R: entry[0], G: entry[1], B: entry[2]}
	}

	// Pad with black up to a valid color count
	n := 1
	if count > 1 {
		n = 1 << gifalloc.BitSize(count)
	}
	if n > count {
		colors = append(colors, make([]gifalloc.Color, n-count)...)
	}

	return gifalloc.MakeColorMap(n, colors)
}

// Write writes the color maps to w as a RIFF palette file and returns the
// number of bytes written.
func Write(w io.Writer, maps ...*gifalloc.ColorMap) (int64, error) {
	size := 4
	for _, cm := range maps {
		size += 4 + 4 + 2 + 2 + 4*len(cm.Colors) // chunk id + chunk size + version + count + entries
	}

	b := make([]byte, 0, 8+size)
	b = append(b, riffType[:]...)
	b = binary.LittleEndian.AppendUint32(b, uint32(size))
	b = append(b, palType[:]...)

	for _, cm := range maps {
		b = append(b, dataType[:]...)
		b = binary.LittleEndian.AppendUint32(b, uint32(4+4*len(cm.Colors)))
		b = binary.LittleEndian.AppendUint16(b, palVersion)
		b = binary.LittleEndian.AppendUint16(b, uint16(len(cm.Colors)))
		for _, c := range cm.Colors {
			b = append(b, c.R, c.G, c.B, 0x00)
		}
	}

	n, err := w.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
