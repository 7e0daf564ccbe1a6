package gifalloc

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMapMarshalBinary(t *testing.T) {
	cm := mustColorMap(t, []Color{{1, 2, 3}, {4, 5, 6}})

	b, err := cm.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, b)

	dup := new(ColorMap)
	require.NoError(t, dup.UnmarshalBinary(b))
	assert.Equal(t, cm, dup)
}

func TestColorMapUnmarshalBinaryInvalid(t *testing.T) {
	cm := mustColorMap(t, gray(1, 2))

	for _, n := range []int{0, 4, 9, 15, 3 * 257} {
		assert.Equal(t, ErrInvalidColorCount, cm.UnmarshalBinary(make([]byte, n)), "n = %d", n)
	}
	assert.Equal(t, gray(1, 2), cm.Colors)
}

func TestWriteExtensions(t *testing.T) {
	img := new(SavedImage)
	require.NoError(t, img.AddExtensionBlock(GraphicsExtFuncCode, []byte{0x04, 0x0a, 0x00, 0x00}))
	require.NoError(t, img.AddExtensionBlock(ApplicationExtFuncCode, []byte("NETSCAPE2.0")))
	require.NoError(t, img.AddExtensionBlock(ContinueExtFuncCode, []byte{0x01, 0x00, 0x00}))
	require.NoError(t, img.AddExtensionBlock(CommentExtFuncCode, nil))

	b := new(bytes.Buffer)
	require.NoError(t, img.WriteExtensions(b))

	want := []byte{0x21, 0xf9, 0x04, 0x04, 0x0a, 0x00, 0x00, 0x00}
	want = append(want, 0x21, 0xff, 0x0b)
	want = append(want, "NETSCAPE2.0"...)
	want = append(want, 0x03, 0x01, 0x00, 0x00, 0x00)
	want = append(want, 0x21, 0xfe, 0x00)
	assert.Equal(t, want, b.Bytes())
}

func TestWriteExtensionsErrors(t *testing.T) {
	img := new(SavedImage)
	require.NoError(t, img.AddExtensionBlock(CommentExtFuncCode, make([]byte, 256)))
	assert.Equal(t, ErrBlockTooLarge, img.WriteExtensions(ioutil.Discard))

	img = new(SavedImage)
	require.NoError(t, img.AddExtensionBlock(ContinueExtFuncCode, []byte{1}))
	assert.Equal(t, ErrBadExtension, img.WriteExtensions(ioutil.Discard))
}

func TestWriteExtensionsEmptyBlocks(t *testing.T) {
	tables := map[string]struct {
		blocks []ExtensionBlock
		err    error
	}{
		"empty first block": {
			[]ExtensionBlock{
				{Function: PlaintextExtFuncCode},
				{Function: ContinueExtFuncCode, Bytes: []byte{1, 2}},
			},
			ErrBadExtension,
		},
		"empty middle block": {
			[]ExtensionBlock{
				{Function: ApplicationExtFuncCode, Bytes: []byte{1}},
				{Function: ContinueExtFuncCode},
				{Function: ContinueExtFuncCode, Bytes: []byte{2}},
			},
			ErrBadExtension,
		},
		"empty last block": {
			[]ExtensionBlock{
				{Function: ApplicationExtFuncCode, Bytes: []byte{1}},
				{Function: ContinueExtFuncCode},
			},
			ErrBadExtension,
		},
		"empty extensions": {
			[]ExtensionBlock{
				{Function: CommentExtFuncCode},
				{Function: PlaintextExtFuncCode},
				{Function: GraphicsExtFuncCode, Bytes: []byte{0, 1, 0, 0}},
			},
			nil,
		},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			src := new(SavedImage)
			for _, eb := range table.blocks {
				require.NoError(t, src.AddExtensionBlock(eb.Function, eb.Bytes))
			}

			b := new(bytes.Buffer)
			err := src.WriteExtensions(b)
			assert.Equal(t, table.err, err)
			if err != nil {
				assert.Equal(t, 0, b.Len())
				return
			}

			img := new(SavedImage)
			r := bytes.NewReader(b.Bytes())
			for r.Len() > 0 {
				require.NoError(t, img.ReadExtension(r))
			}

			require.Len(t, img.ExtensionBlocks, len(src.ExtensionBlocks))
			for i := range src.ExtensionBlocks {
				assert.Equal(t, src.ExtensionBlocks[i].Function, img.ExtensionBlocks[i].Function)
				assert.Equal(t, src.ExtensionBlocks[i].ByteCount(), img.ExtensionBlocks[i].ByteCount())
			}
		})
	}
}

func TestReadExtension(t *testing.T) {
	src := new(SavedImage)
	require.NoError(t, src.AddExtensionBlock(ApplicationExtFuncCode, []byte("NETSCAPE2.0")))
	require.NoError(t, src.AddExtensionBlock(ContinueExtFuncCode, []byte{0x01, 0x05, 0x00}))
	require.NoError(t, src.AddExtensionBlock(CommentExtFuncCode, nil))

	b := new(bytes.Buffer)
	require.NoError(t, src.WriteExtensions(b))

	img := new(SavedImage)
	r := bytes.NewReader(b.Bytes())
	require.NoError(t, img.ReadExtension(r))
	assert.Equal(t, ApplicationExtFuncCode, img.Function)
	require.NoError(t, img.ReadExtension(r))
	assert.Equal(t, CommentExtFuncCode, img.Function)
	assert.Equal(t, 0, r.Len())

	require.Len(t, img.ExtensionBlocks, 3)
	for i := range src.ExtensionBlocks {
		assert.Equal(t, src.ExtensionBlocks[i].Function, img.ExtensionBlocks[i].Function)
		assert.Equal(t, src.ExtensionBlocks[i].ByteCount(), img.ExtensionBlocks[i].ByteCount())
		assert.Equal(t, src.ExtensionBlocks[i].Bytes, img.ExtensionBlocks[i].Bytes)
	}
}

func TestReadExtensionErrors(t *testing.T) {
	img := new(SavedImage)

	assert.Equal(t, ErrBadExtension, img.ReadExtension(bytes.NewReader([]byte{0x2c})))
	assert.Equal(t, io.ErrUnexpectedEOF, img.ReadExtension(bytes.NewReader([]byte{0x21})))
	assert.Equal(t, io.ErrUnexpectedEOF, img.ReadExtension(bytes.NewReader([]byte{0x21, 0xfe, 0x03, 'a'})))
	assert.Equal(t, io.ErrUnexpectedEOF, img.ReadExtension(bytes.NewReader([]byte{0x21, 0xfe, 0x01, 'a'})))
	assert.Nil(t, img.ExtensionBlocks)
}

func TestReadExtensionAllocationError(t *testing.T) {
	img := new(SavedImage)

	a := newCountingAllocator()
	a.failAfter = 1
	useAllocator(t, a)

	err := img.ReadExtension(bytes.NewReader([]byte{0x21, 0xfe, 0x01, 'a', 0x01, 'b', 0x00}))
	assert.Equal(t, ErrAllocation, err)
	assert.Len(t, img.ExtensionBlocks, 0)
	assert.Equal(t, 0, a.live)
}
