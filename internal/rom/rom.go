// Package rom models a RISC OS ROM image: the kernel start, the chain of
// built-in modules and the OS version string, none of which are pointed at
// by a header. They are found by searching for known anchors.
//
// A Rom memoizes its lookups and is not safe for concurrent use.
package rom

import (
	"hash/crc32"
	"io"
	"iter"
	"os"

	"roxtract/internal/bview"
	"roxtract/internal/heuristics"
)

// MaxSize is the largest image Load accepts.
const MaxSize = 12 << 20

const (
	classicSmall = 512 << 10 // RISC OS 2
	classicLarge = 2 << 20   // RISC OS 3
)

var (
	kernelAnchor  = bview.MustNew([]byte("MODULE#\x00"))
	utilityAnchor = bview.MustNew([]byte("UtilityModule\x00"))
)

const (
	kernelAnchorSkip   = 8
	titleFieldAdjust   = 0x10
	chainLengthWordLen = 4
)

// SizePolicy reports whether an image of n bytes may be loaded.
type SizePolicy func(n int64) bool

// AnySize accepts any multiple of 4 up to MaxSize.
func AnySize(n int64) bool {
	return n >= 0 && n%4 == 0 && n <= MaxSize
}

// ClassicSizes accepts only the 512 KiB and 2 MiB images of RISC OS 2 and 3.
func ClassicSizes(n int64) bool {
	return n == classicSmall || n == classicLarge
}

// Rom is a loaded image plus its memoized offsets.
type Rom struct {
	data  bview.View
	crc32 uint32

	kernelStart      cachedOffset
	moduleChainStart cachedOffset
	versionName      cachedOffset
}

// Load reads the image at path, accepting sizes allowed by AnySize.
func Load(path string) (*Rom, error) {
	return LoadWithPolicy(path, AnySize)
}

// LoadWithPolicy reads the image at path. The size is checked before any
// data is read.
func LoadWithPolicy(path string, policy SizePolicy) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if !policy(fi.Size()) {
		return nil, ErrInvalidSize
	}

	data := make([]byte, fi.Size())
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return New(data)
}

// New wraps an in-memory image without copying it. The bytes must not be
// modified afterwards.
func New(data []byte) (*Rom, error) {
	if !AnySize(int64(len(data))) {
		return nil, ErrInvalidSize
	}
	v, err := bview.New(data)
	if err != nil {
		return nil, ErrInvalidSize
	}
	return &Rom{data: v, crc32: crc32.ChecksumIEEE(data)}, nil
}

// Data returns a view of the whole image.
func (r *Rom) Data() bview.View { return r.data }

// Len returns the image size in bytes.
func (r *Rom) Len() uint32 { return r.data.Len() }

// CRC32 returns the IEEE CRC-32 of the whole image.
func (r *Rom) CRC32() uint32 { return r.crc32 }

// KernelStart returns the offset just past the "MODULE#" anchor.
func (r *Rom) KernelStart() (uint32, bool) {
	return r.kernelStart.get(func() (uint32, bool) {
		p, ok := heuristics.Find(r.data, kernelAnchor)
		if !ok {
			return 0, false
		}
		n, ok := bview.CheckedAdd(p, kernelAnchorSkip)
		if !ok || n >= r.data.Len() {
			return 0, false
		}
		return n, true
	})
}

// ModuleChainStart returns the offset of the length word of the first
// module in the chain, the UtilityModule.
func (r *Rom) ModuleChainStart() (uint32, bool) {
	return r.moduleChainStart.get(func() (uint32, bool) {
		n, ok := heuristics.FindOffsetTo(r.data, utilityAnchor, titleFieldAdjust)
		if !ok {
			return 0, false
		}
		return bview.CheckedSub(n, chainLengthWordLen)
	})
}

// VersionNameStart returns the offset of the OS version string, which is
// the help string of the first module in the chain.
func (r *Rom) VersionNameStart() (uint32, bool) {
	return r.versionName.get(func() (uint32, bool) {
		first, ok := r.ModuleChain().Next()
		if !ok {
			return 0, false
		}
		help, err := first.Data().WordAt(helpField)
		if err != nil || help == 0 {
			return 0, false
		}
		n, ok := bview.CheckedAdd(first.Offset(), help)
		if !ok || n >= r.data.Len() {
			return 0, false
		}
		return n, true
	})
}

// VersionName returns the OS version string.
func (r *Rom) VersionName() (bview.View, error) {
	off, ok := r.VersionNameStart()
	if !ok {
		return bview.View{}, ErrUtilityModuleNotFound
	}
	rest, err := r.data.SubrangeFrom(off)
	if err != nil {
		return bview.View{}, ErrUnterminatedCString
	}
	s, err := rest.CString()
	if err != nil {
		return bview.View{}, ErrUnterminatedCString
	}
	return s, nil
}

// ModuleChain returns a fresh iterator over the module chain. It yields
// nothing if the chain start cannot be found.
func (r *Rom) ModuleChain() *ModuleChain {
	start, ok := r.ModuleChainStart()
	return newModuleChain(r.data, start, ok)
}

// Modules returns the module chain as a sequence.
func (r *Rom) Modules() iter.Seq[Module] {
	return func(yield func(Module) bool) {
		c := r.ModuleChain()
		for m, ok := c.Next(); ok; m, ok = c.Next() {
			if !yield(m) {
				return
			}
		}
	}
}

// Identify returns the catalogued version this image matches.
func (r *Rom) Identify() (KnownVersion, bool) {
	for _, k := range catalog {
		if k.matchesName(r.data.Bytes()) && k.CRC32 == r.crc32 {
			return k, true
		}
	}
	return KnownVersion{}, false
}
