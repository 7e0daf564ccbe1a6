package gifalloc

import "io"

const (
	extensionIntroducer = 0x21
	blockTerminator     = 0x00
	maxBlockSize        = 255
)

// MarshalBinary encodes the color map as a GIF color table, three bytes per
// entry in red, green, blue order.
func (cm *ColorMap) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, colorBytes(len(cm.Colors)))
	for _, c := range cm.Colors {
		b = append(b, c.R, c.G, c.B)
	}
	return b, nil
}

// UnmarshalBinary decodes a GIF color table, replacing the current entries.
// The number of entries must be a valid color count.
func (cm *ColorMap) UnmarshalBinary(b []byte) error {
	if len(b)%3 != 0 || !validColorCount(len(b)/3) {
		return ErrInvalidColorCount
	}

	n := len(b) / 3
	if err := alloc(colorBytes(n)); err != nil {
		return err
	}
	cm.Free()

	colors := make([]Color, n)
	for i := range colors {
		colors[i] = Color{b[3*i], b[3*i+1], b[3*i+2]}
	}
	cm.ColorCount, cm.BitsPerPixel, cm.Colors = n, BitSize(n), colors

	return nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// An empty sub-block is the block terminator on the wire, so only an
// extension consisting of a single empty block can carry one.
func (img *SavedImage) checkExtensions() error {
	blocks := img.ExtensionBlocks
	for i, b := range blocks {
		if len(b.Bytes) > maxBlockSize {
			return ErrBlockTooLarge
		}

		if b.Function == ContinueExtFuncCode {
			if i == 0 || len(b.Bytes) == 0 {
				return ErrBadExtension
			}
			continue
		}

		if len(b.Bytes) == 0 && i+1 < len(blocks) && blocks[i+1].Function == ContinueExtFuncCode {
			return ErrBadExtension
		}
	}
	return nil
}

// WriteExtensions writes the image's extension blocks in GIF framing. Each
// block with a function other than ContinueExtFuncCode starts a new
// extension, each block becomes one data sub-block and every extension is
// closed with a block terminator.
//
// Lists that would not read back block for block return ErrBadExtension
// before anything is written: an empty continuation block, or an empty
// first block followed by continuation blocks.
func (img *SavedImage) WriteExtensions(w io.Writer) error {
	if err := img.checkExtensions(); err != nil {
		return err
	}

	open := false
	for _, b := range img.ExtensionBlocks {
		if b.Function != ContinueExtFuncCode {
			if open {
				if _, err := w.Write([]byte{blockTerminator}); err != nil {
					return err
				}
			}
			if _, err := w.Write([]byte{extensionIntroducer, byte(b.Function)}); err != nil {
				return err
			}
			open = true
		}

		if len(b.Bytes) == 0 {
			continue
		}
		if _, err := w.Write(append([]byte{byte(len(b.Bytes))}, b.Bytes...)); err != nil {
			return err
		}
	}

	if open {
		if _, err := w.Write([]byte{blockTerminator}); err != nil {
			return err
		}
	}

	return nil
}

// ReadExtension reads one extension, starting at the extension introducer,
// and appends its data sub-blocks to the image. The first block carries the
// extension label, the rest ContinueExtFuncCode; an extension without data
// adds a single empty block. Nothing is appended on failure.
func (img *SavedImage) ReadExtension(r interface {
	io.Reader
	io.ByteReader
}) error {
	c, err := r.ReadByte()
	if err != nil {
		return err
	}
	if c != extensionIntroducer {
		return ErrBadExtension
	}

	label, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	var blocks [][]byte
	for {
		n, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		if n == blockTerminator {
			break
		}
		b := make([]byte, n)
		if err := readFull(r, b); err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		blocks = append(blocks, nil)
	}

	start, prev := len(img.ExtensionBlocks), img.Function
	function := int(label)
	for _, b := range blocks {
		if err := img.AddExtensionBlock(function, b); err != nil {
			img.truncateExtensions(start)
			img.Function = prev
			return err
		}
		function = ContinueExtFuncCode
	}
	// The image function tracks the extension label, not the continuation
	img.Function = int(label)

	return nil
}
