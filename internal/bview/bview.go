// Package bview provides a read-only, bounds-checked view over a byte buffer.
// Every offset and length is a uint32 and is validated against the view's
// length before use. Views never copy the underlying bytes.
package bview

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

// SizeLimit is the largest buffer a View may cover.
const SizeLimit = math.MaxInt32

var (
	ErrOutOfRange   = errors.New("offset out of range")
	ErrUnterminated = errors.New("C string is not terminated")
	ErrTooLarge     = errors.New("buffer exceeds view size limit")
)

// View is an immutable window onto a byte buffer of at most SizeLimit bytes.
// The zero View is empty.
type View struct {
	b []byte
}

// New wraps b without copying it.
func New(b []byte) (View, error) {
	if err := checkLen(len(b)); err != nil {
		return View{}, err
	}
	return View{b: b}, nil
}

// MustNew is like New but panics if b is too large. It is meant for
// package-level anchors and test fixtures.
func MustNew(b []byte) View {
	v, err := New(b)
	if err != nil {
		panic(err)
	}
	return v
}

func checkLen(n int) error {
	if n > SizeLimit {
		return ErrTooLarge
	}
	return nil
}

// Len returns the number of bytes in the view.
func (v View) Len() uint32 { return uint32(len(v.b)) }

// IsEmpty reports whether the view has no bytes.
func (v View) IsEmpty() bool { return len(v.b) == 0 }

// Bytes returns the viewed bytes. Callers must not modify them.
func (v View) Bytes() []byte { return v.b }

// ByteAt returns the byte at off.
func (v View) ByteAt(off uint32) (byte, error) {
	if off >= v.Len() {
		return 0, ErrOutOfRange
	}
	return v.b[off], nil
}

// WordAt reads a little-endian uint32 at off. No alignment is required.
func (v View) WordAt(off uint32) (uint32, error) {
	if SaturatingAdd(off, 4) > v.Len() {
		return 0, ErrOutOfRange
	}
	return binary.LittleEndian.Uint32(v.b[off : off+4]), nil
}

// Subrange returns the view over [start, end).
func (v View) Subrange(start, end uint32) (View, error) {
	if start > end || end > v.Len() {
		return View{}, ErrOutOfRange
	}
	return View{b: v.b[start:end:end]}, nil
}

// SubrangeFrom returns the view over [start, Len()).
func (v View) SubrangeFrom(start uint32) (View, error) {
	return v.Subrange(start, v.Len())
}

// SplitFirst returns the first byte and the rest of the view. ok is false
// when the view is empty.
func (v View) SplitFirst() (first byte, rest View, ok bool) {
	if v.IsEmpty() {
		return 0, View{}, false
	}
	return v.b[0], View{b: v.b[1:]}, true
}

// CString returns the bytes before the first NUL.
func (v View) CString() (View, error) {
	n := bytes.IndexByte(v.b, 0)
	if n < 0 {
		return View{}, ErrUnterminated
	}
	return View{b: v.b[:n:n]}, nil
}

// Equal reports whether both views hold the same bytes.
func (v View) Equal(o View) bool { return bytes.Equal(v.b, o.b) }

func (v View) String() string { return string(v.b) }
