// Package romtest builds synthetic ROM images for tests.
package romtest

import "encoding/binary"

// KernelAnchorAt is where Build places the "MODULE#" anchor; the kernel
// start of a built image is KernelAnchorAt+8.
const KernelAnchorAt = 0x10

const headerLen = 0x2c

// Module describes one module record.
type Module struct {
	Title string
	Help  string
	// Code is placed after the strings, word aligned, and the init entry
	// points at it.
	Code []uint32

	// Length overrides the record length word when non-zero.
	Length uint32
	// TitleOffset overrides the title field when non-zero.
	TitleOffset uint32
}

// Image describes a whole ROM.
type Image struct {
	// ChainAt is the offset of the first module's length word. It must be
	// at least 0x18 unless NoKernel is set.
	ChainAt  int
	NoKernel bool
	Modules  []Module
	// Size pads the image with 0xff up to this many bytes.
	Size int
}

// ModuleBytes returns the record body for m, without its length word.
func ModuleBytes(m Module) []byte {
	b := make([]byte, headerLen)
	titleOff := uint32(len(b))
	b = append(append(b, m.Title...), 0)

	var helpOff uint32
	if m.Help != "" {
		helpOff = uint32(len(b))
		b = append(append(b, m.Help...), 0)
	}
	b = pad4(b, 0)

	var initOff uint32
	if len(m.Code) > 0 {
		initOff = uint32(len(b))
		for _, w := range m.Code {
			b = binary.LittleEndian.AppendUint32(b, w)
		}
	}

	if m.TitleOffset != 0 {
		titleOff = m.TitleOffset
	}
	binary.LittleEndian.PutUint32(b[0x04:], initOff)
	binary.LittleEndian.PutUint32(b[0x10:], titleOff)
	binary.LittleEndian.PutUint32(b[0x14:], helpOff)
	return b
}

// Build lays out img and returns its bytes. The chain is closed with a zero
// length word.
func Build(img Image) []byte {
	b := make([]byte, img.ChainAt)
	if !img.NoKernel {
		copy(b[KernelAnchorAt:], "MODULE#\x00")
	}

	for _, m := range img.Modules {
		body := ModuleBytes(m)
		length := uint32(len(body)) + 4
		if m.Length != 0 {
			length = m.Length
		}
		b = binary.LittleEndian.AppendUint32(b, length)
		b = append(b, body...)
	}
	b = binary.LittleEndian.AppendUint32(b, 0)

	for len(b) < img.Size {
		b = append(b, 0xff)
	}
	return pad4(b, 0xff)
}

func pad4(b []byte, fill byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, fill)
	}
	return b
}
