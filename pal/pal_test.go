package pal

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bodgit/gifalloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	a, err := gifalloc.MakeColorMap(4, []gifalloc.Color{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}, {R: 7, G: 8, B: 9}, {R: 10, G: 11, B: 12}})
	require.NoError(t, err)
	b, err := gifalloc.MakeColorMap(2, []gifalloc.Color{{R: 0xff, G: 0, B: 0}, {R: 0, G: 0xff, B: 0}})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	n, err := Write(buf, a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, 12+(12+16)+(12+8), buf.Len())
	assert.Equal(t, []byte("RIFF"), buf.Bytes()[0:4])
	assert.Equal(t, uint32(buf.Len()-8), binary.LittleEndian.Uint32(buf.Bytes()[4:8]))

	maps, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, a, maps[0])
	assert.Equal(t, b, maps[1])
}

func chunk(colors ...[3]byte) []byte {
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, uint32(4+8+4+4*len(colors)))
	b = append(b, "PAL data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(4+4*len(colors)))
	b = append(b, 0x00, 0x03)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(colors)))
	for _, c := range colors {
		b = append(b, c[0], c[1], c[2], 0)
	}
	return b
}

func TestReadPads(t *testing.T) {
	maps, err := Read(bytes.NewReader(chunk([3]byte{1, 1, 1}, [3]byte{2, 2, 2}, [3]byte{3, 3, 3})))
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, 4, maps[0].ColorCount)
	assert.Equal(t, gifalloc.Color{R: 3, G: 3, B: 3}, maps[0].Colors[2])
	assert.Equal(t, gifalloc.Color{}, maps[0].Colors[3])
}

func TestReadErrors(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("RIFF\x04\x00\x00\x00WAVE")))
	assert.Error(t, err)

	colors := make([][3]byte, 300)
	_, err = Read(bytes.NewReader(chunk(colors...)))
	assert.Error(t, err)

	b := chunk([3]byte{1, 1, 1})
	b[20] = 0x01
	_, err = Read(bytes.NewReader(b))
	assert.Error(t, err)
}
