package rom

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"roxtract/internal/bview"
	"roxtract/internal/rom/romtest"
)

const chainAt = 0x40

var fixtureModules = []romtest.Module{
	{Title: "UtilityModule", Help: "RISC OS\t\t3.11 (29 Sep 1992)"},
	{Title: "FileSwitch", Help: "FileSwitch\t2.21 (12 Sep 1992)", Code: []uint32{0xe3a00001, 0xe1a0f00e}},
	{Title: "Podule"},
}

func fixture(mods ...romtest.Module) []byte {
	if len(mods) == 0 {
		mods = fixtureModules
	}
	return romtest.Build(romtest.Image{ChainAt: chainAt, Modules: mods})
}

func mustNew(t *testing.T, data []byte) *Rom {
	t.Helper()
	r, err := New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func titles(t *testing.T, r *Rom) []string {
	t.Helper()
	var out []string
	for m := range r.Modules() {
		title, err := m.Title()
		if err != nil {
			out = append(out, "?")
			continue
		}
		out = append(out, title.String())
	}
	return out
}

func TestKernelStart(t *testing.T) {
	r := mustNew(t, fixture())
	for i := 0; i < 2; i++ {
		got, ok := r.KernelStart()
		if !ok || got != romtest.KernelAnchorAt+8 {
			t.Errorf("KernelStart() = %#x, %v; want %#x", got, ok, romtest.KernelAnchorAt+8)
		}
	}
}

func TestKernelStartAtImageEnd(t *testing.T) {
	data := make([]byte, 16)
	copy(data[8:], "MODULE#\x00")
	r := mustNew(t, data)
	if got, ok := r.KernelStart(); ok {
		t.Errorf("KernelStart() = %#x, want not found when it points past the image", got)
	}
}

func TestModuleChainStart(t *testing.T) {
	r := mustNew(t, fixture())
	got, ok := r.ModuleChainStart()
	if !ok || got != chainAt {
		t.Errorf("ModuleChainStart() = %#x, %v; want %#x", got, ok, chainAt)
	}
}

func TestModuleChain(t *testing.T) {
	data := fixture()
	r := mustNew(t, data)

	want := []string{"UtilityModule", "FileSwitch", "Podule"}
	if got := titles(t, r); !slices.Equal(got, want) {
		t.Fatalf("titles = %q, want %q", got, want)
	}

	c := r.ModuleChain()
	pos := uint32(chainAt)
	for i := 0; ; i++ {
		m, ok := c.Next()
		if !ok {
			if i != len(want) {
				t.Fatalf("chain ended after %d modules, want %d", i, len(want))
			}
			break
		}
		length := binary.LittleEndian.Uint32(data[pos:])
		if m.Offset() != pos+4 || m.Len() != length-4 {
			t.Errorf("module %d: offset %#x len %#x; want %#x, %#x", i, m.Offset(), m.Len(), pos+4, length-4)
		}
		pos += length
	}
	if err := c.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if _, ok := c.Next(); ok {
		t.Error("exhausted chain yielded another module")
	}
}

func TestModulesStopsWhenYieldReturnsFalse(t *testing.T) {
	r := mustNew(t, fixture())
	n := 0
	for range r.Modules() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d modules, want 1", n)
	}
}

func TestTerminatorOnlyBuffer(t *testing.T) {
	r := mustNew(t, []byte{4, 0, 0, 0})
	if got := titles(t, r); len(got) != 0 {
		t.Errorf("titles = %q, want none", got)
	}

	// walked directly, the record is a single empty module
	c := newModuleChain(bview.MustNew([]byte{4, 0, 0, 0}), 0, true)
	if m, ok := c.Next(); !ok || m.Len() != 0 || m.Offset() != 4 {
		t.Errorf("Next() = len %d at %d, %v; want empty module at 4", m.Len(), m.Offset(), ok)
	}
	if _, ok := c.Next(); ok || c.Err() != nil {
		t.Errorf("chain continued past the image end, err %v", c.Err())
	}

	c = newModuleChain(bview.MustNew([]byte{0, 0, 0, 0}), 0, true)
	if _, ok := c.Next(); ok {
		t.Error("zero length word did not end the chain")
	}
}

func TestBrokenChain(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"runs past image", 0x10000},
		{"shorter than its length word", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := slices.Clone(fixtureModules)
			mods[2].Length = tt.length
			r := mustNew(t, fixture(mods...))

			c := r.ModuleChain()
			n := 0
			for _, ok := c.Next(); ok; _, ok = c.Next() {
				n++
			}
			if n != 2 {
				t.Errorf("yielded %d modules, want 2", n)
			}
			if !errors.Is(c.Err(), ErrModuleChainBroken) {
				t.Errorf("Err() = %v, want ErrModuleChainBroken", c.Err())
			}
		})
	}
}

func TestTitleFailureDoesNotStopChain(t *testing.T) {
	mods := slices.Clone(fixtureModules)
	mods[1].TitleOffset = 0xfff0
	r := mustNew(t, fixture(mods...))

	want := []string{"UtilityModule", "?", "Podule"}
	if got := titles(t, r); !slices.Equal(got, want) {
		t.Errorf("titles = %q, want %q", got, want)
	}

	c := r.ModuleChain()
	c.Next()
	m, _ := c.Next()
	if _, err := m.Title(); !errors.Is(err, ErrUnterminatedCString) {
		t.Errorf("Title() error = %v, want ErrUnterminatedCString", err)
	}
}

func TestModuleHelpAndHeader(t *testing.T) {
	r := mustNew(t, fixture())
	var mods []Module
	for m := range r.Modules() {
		mods = append(mods, m)
	}

	help, err := mods[1].Help()
	if err != nil || help.String() != "FileSwitch\t2.21 (12 Sep 1992)" {
		t.Errorf("Help() = %q, %v", help, err)
	}
	if _, err := mods[2].Help(); !errors.Is(err, ErrNoHelpString) {
		t.Errorf("Help() error = %v, want ErrNoHelpString", err)
	}

	h := mods[1].Header()
	if h.Words != 11 || h.Title != 0x2c || h.Init == 0 {
		t.Errorf("Header() = %+v", h)
	}
	code, err := mods[1].Data().WordAt(h.Init)
	if err != nil || code != 0xe3a00001 {
		t.Errorf("word at init = %#x, %v", code, err)
	}

	short := Module{data: bview.MustNew(make([]byte, 10))}
	if h := short.Header(); h.Words != 2 {
		t.Errorf("short Header().Words = %d, want 2", h.Words)
	}
}

func TestVersionName(t *testing.T) {
	r := mustNew(t, fixture())
	name, err := r.VersionName()
	if err != nil || name.String() != "RISC OS\t\t3.11 (29 Sep 1992)" {
		t.Errorf("VersionName() = %q, %v", name, err)
	}

	empty := mustNew(t, make([]byte, 64))
	if _, err := empty.VersionName(); !errors.Is(err, ErrUtilityModuleNotFound) {
		t.Errorf("VersionName() error = %v, want ErrUtilityModuleNotFound", err)
	}
}

func TestAbsentOffsetsAreCached(t *testing.T) {
	r := mustNew(t, make([]byte, 64))
	if _, ok := r.KernelStart(); ok {
		t.Fatal("KernelStart() found an anchor in an empty image")
	}
	if _, ok := r.ModuleChainStart(); ok {
		t.Fatal("ModuleChainStart() found an anchor in an empty image")
	}
	if r.kernelStart.state != absent || r.moduleChainStart.state != absent {
		t.Errorf("cache states = %v, %v; want absent", r.kernelStart.state, r.moduleChainStart.state)
	}
}

func TestCachedOffset(t *testing.T) {
	tests := []struct {
		name  string
		off   uint32
		found bool
	}{
		{"found", 0x40, true},
		{"found at zero", 0, true},
		{"absent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c cachedOffset
			calls := 0
			find := func() (uint32, bool) {
				calls++
				return tt.off, tt.found
			}
			for i := 0; i < 3; i++ {
				got, ok := c.get(find)
				if ok != tt.found || got != tt.off {
					t.Errorf("get() = %#x, %v; want %#x, %v", got, ok, tt.off, tt.found)
				}
			}
			if calls != 1 {
				t.Errorf("find called %d times, want 1", calls)
			}
		})
	}
}

func writeFile(t *testing.T, size int64, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rom.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if data != nil {
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	} else if err := f.Truncate(size); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	data := fixture()
	r, err := Load(writeFile(t, 0, data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != uint32(len(data)) || r.CRC32() != crc32.ChecksumIEEE(data) {
		t.Errorf("Load: len %d crc %#x", r.Len(), r.CRC32())
	}
	if got := titles(t, r); len(got) != 3 {
		t.Errorf("titles = %q", got)
	}
}

func TestLoadInvalidSize(t *testing.T) {
	for _, size := range []int64{6, 1023, MaxSize + 4} {
		if _, err := Load(writeFile(t, size, nil)); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Load(%d bytes) error = %v, want ErrInvalidSize", size, err)
		}
	}
	if _, err := Load(writeFile(t, MaxSize, nil)); err != nil {
		t.Errorf("Load(MaxSize) error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.rom"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want *IOError wrapping ErrNotExist", err)
	}
}

func TestLoadClassicSizes(t *testing.T) {
	tests := []struct {
		size int64
		ok   bool
	}{
		{512 << 10, true},
		{2 << 20, true},
		{1 << 20, false},
		{1024, false},
	}

	for _, tt := range tests {
		_, err := LoadWithPolicy(writeFile(t, tt.size, nil), ClassicSizes)
		if (err == nil) != tt.ok {
			t.Errorf("LoadWithPolicy(%d, ClassicSizes) error = %v", tt.size, err)
		}
	}
}

func TestNewInvalidSize(t *testing.T) {
	if _, err := New(make([]byte, 7)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("New(7 bytes) error = %v, want ErrInvalidSize", err)
	}
}
