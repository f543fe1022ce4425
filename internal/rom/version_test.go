package rom

import (
	"hash/crc32"
	"testing"
)

func TestKnownVersionMatches(t *testing.T) {
	data := make([]byte, 0x40)
	copy(data[0x10:], "RISC OS\t\t3.11\x00")
	sum := crc32.ChecksumIEEE(data)

	tests := []struct {
		name string
		k    KnownVersion
		data []byte
		want bool
	}{
		{"exact", KnownVersion{Internal: []byte("RISC OS\t\t3.11\x00"), InternalOffset: 0x10, CRC32: sum}, data, true},
		{"wrong checksum", KnownVersion{Internal: []byte("RISC OS\t\t3.11\x00"), InternalOffset: 0x10, CRC32: sum + 1}, data, false},
		{"wrong offset", KnownVersion{Internal: []byte("RISC OS\t\t3.11\x00"), InternalOffset: 0x14, CRC32: sum}, data, false},
		{"wrong name", KnownVersion{Internal: []byte("RISC OS\t\t3.10\x00"), InternalOffset: 0x10, CRC32: sum}, data, false},
		{"image too short", KnownVersion{Internal: []byte("RISC OS\t\t3.11\x00"), InternalOffset: 0x10, CRC32: sum}, data[:0x18], false},
		{"offset overflows", KnownVersion{Internal: []byte("RISC"), InternalOffset: 0xffffffff, CRC32: sum}, data, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.Matches(tt.data); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	if len(c) == 0 || c[0].Name != "RISC OS 3.11" || c[0].InternalOffset != 0x498c {
		t.Fatalf("Catalog() = %+v", c)
	}
	c[0].Name = "changed"
	if Catalog()[0].Name != "RISC OS 3.11" {
		t.Error("Catalog() exposed the package catalogue")
	}
}

func TestIdentifyUnknownImage(t *testing.T) {
	data := fixture()
	if k, ok := Identify(data); ok {
		t.Errorf("Identify() = %q on a synthetic image", k.Name)
	}
	if k, ok := mustNew(t, data).Identify(); ok {
		t.Errorf("Rom.Identify() = %q on a synthetic image", k.Name)
	}
}
