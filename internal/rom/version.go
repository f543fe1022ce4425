package rom

import (
	"bytes"
	"hash/crc32"
	"slices"
)

// KnownVersion identifies a catalogued OS release by its internal name
// string at a fixed offset plus the CRC-32 of the whole image.
type KnownVersion struct {
	Name           string
	Internal       []byte
	InternalOffset uint32
	CRC32          uint32
}

var catalog = []KnownVersion{
	{
		Name:           "RISC OS 3.11",
		Internal:       []byte("RISC OS\t\t3.11 (29 Sep 1992)\x00"),
		InternalOffset: 0x498c,
		CRC32:          0x54c0c963,
	},
}

// Catalog returns the known versions.
func Catalog() []KnownVersion { return slices.Clone(catalog) }

// Matches reports whether data is exactly this version. The CRC is only
// computed when the name matches.
func (k KnownVersion) Matches(data []byte) bool {
	if !k.matchesName(data) {
		return false
	}
	return crc32.ChecksumIEEE(data) == k.CRC32
}

func (k KnownVersion) matchesName(data []byte) bool {
	end := uint64(k.InternalOffset) + uint64(len(k.Internal))
	if end > uint64(len(data)) {
		return false
	}
	return bytes.Equal(data[k.InternalOffset:end], k.Internal)
}

// Identify returns the first catalogued version that data matches.
func Identify(data []byte) (KnownVersion, bool) {
	for _, k := range catalog {
		if k.Matches(data) {
			return k, true
		}
	}
	return KnownVersion{}, false
}
