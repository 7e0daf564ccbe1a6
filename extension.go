package gifalloc

// Extension function codes as they appear after the GIF extension
// introducer.
const (
	ContinueExtFuncCode    = 0x00
	PlaintextExtFuncCode   = 0x01
	GraphicsExtFuncCode    = 0xf9
	CommentExtFuncCode     = 0xfe
	ApplicationExtFuncCode = 0xff
)

// ExtensionBlock is one data sub-block of an extension. The first block of
// an extension carries its label as Function, any further blocks of the
// same extension carry ContinueExtFuncCode.
type ExtensionBlock struct {
	Function int
	Bytes    []byte

	// Set when Bytes belongs to the block this one was copied from
	aliased bool
}

func (eb *ExtensionBlock) ByteCount() int {
	return len(eb.Bytes)
}

// Aliased reports whether the payload is shared with the block it was
// copied from by MakeSavedImageAliased. Writing to an aliased payload
// changes both blocks.
func (eb *ExtensionBlock) Aliased() bool {
	return eb.aliased
}

// AddExtensionBlock appends a block with the given function code and a
// copy of data to the image and records function as the image's current
// function. The extension list is left unchanged on failure.
//
// This replaces the two step protocol of setting the image function before
// adding data; to reserve space pass a zeroed slice of the wanted length.
func (img *SavedImage) AddExtensionBlock(function int, data []byte) error {
	if err := alloc(len(data)); err != nil {
		return err
	}

	b := ExtensionBlock{
		Function: function,
		Bytes:    make([]byte, len(data)),
	}
	copy(b.Bytes, data)

	img.ExtensionBlocks = append(img.ExtensionBlocks, b)
	img.Function = function

	return nil
}

// FreeExtensions releases every extension block of the image and empties
// the list. Payloads shared with another image are not released.
func (img *SavedImage) FreeExtensions() {
	if img == nil || img.ExtensionBlocks == nil {
		return
	}
	img.truncateExtensions(0)
	img.ExtensionBlocks = nil
}

func (img *SavedImage) truncateExtensions(n int) {
	for i := n; i < len(img.ExtensionBlocks); i++ {
		b := &img.ExtensionBlocks[i]
		if !b.aliased {
			free(len(b.Bytes))
		}
		b.Bytes = nil
	}
	img.ExtensionBlocks = img.ExtensionBlocks[:n]
}
