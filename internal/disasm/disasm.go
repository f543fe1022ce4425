// Package disasm decodes short runs of 32-bit ARM instructions from a ROM
// image. It is meant for peeking at entry points, not for walking code.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/arch/arm/armasm"

	"roxtract/internal/bview"
)

// Inst is a simplified decoded instruction.
type Inst struct {
	VA   uint64  // address of instruction
	Text string  // formatted disassembly string
	Op   string  // mnemonic in lowercase
	Raw  [4]byte // raw encoding
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// Decode decodes up to count words of v starting at off. base is added to
// each offset to form the instruction address. Words that do not decode are
// kept as ".word" directives; decoding stops at the end of the view.
func Decode(v bview.View, off uint32, count int, base uint64) Stream {
	var s Stream
	for i := 0; i < count; i++ {
		w, err := v.WordAt(off)
		if err != nil {
			break
		}

		in := Inst{VA: base + uint64(off)}
		binary.LittleEndian.PutUint32(in.Raw[:], w)
		if a, err := armasm.Decode(in.Raw[:], armasm.ModeARM); err == nil {
			in.Text = armasm.GNUSyntax(a)
			in.Op = strings.ToLower(a.Op.String())
		} else {
			in.Text = fmt.Sprintf(".word 0x%08x", w)
			in.Op = ".word"
		}
		s = append(s, in)

		next, ok := bview.CheckedAdd(off, 4)
		if !ok {
			break
		}
		off = next
	}
	return s
}

// String formats the stream as "address  encoding  text" lines.
func (s Stream) String() string {
	var sb strings.Builder
	for _, in := range s {
		fmt.Fprintf(&sb, "%08x  %08x  %s\n", in.VA, binary.LittleEndian.Uint32(in.Raw[:]), in.Text)
	}
	return sb.String()
}
