package rom

import "roxtract/internal/bview"

// Module header word offsets, relative to the module start.
const (
	titleField = 0x10
	helpField  = 0x14

	headerWords = 11
)

// ModuleChain walks the length-prefixed module records of an image. Each
// record starts with a length word that counts itself; a zero length ends
// the chain. It is forward-only and cannot be restarted.
type ModuleChain struct {
	data bview.View
	pos  uint32
	done bool
	err  error
}

func newModuleChain(data bview.View, start uint32, ok bool) *ModuleChain {
	return &ModuleChain{data: data, pos: start, done: !ok}
}

// Next returns the next module. ok is false once the chain is exhausted.
func (c *ModuleChain) Next() (m Module, ok bool) {
	if c.done {
		return Module{}, false
	}

	length, err := c.data.WordAt(c.pos)
	if err != nil || length == 0 {
		c.done = true
		return Module{}, false
	}

	start := c.pos + chainLengthWordLen
	end := bview.SaturatingAdd(c.pos, length)

	if next, ok := bview.CheckedAdd(c.pos, length); ok && next < c.data.Len() {
		c.pos = next
	} else {
		c.done = true
	}

	body, err := c.data.Subrange(start, end)
	if err != nil {
		c.done, c.err = true, ErrModuleChainBroken
		return Module{}, false
	}
	return Module{data: body, offset: start}, true
}

// Err returns ErrModuleChainBroken if the walk stopped at a record whose
// length did not fit the image.
func (c *ModuleChain) Err() error { return c.err }

// Module is a view of one module record, without its length word.
type Module struct {
	data   bview.View
	offset uint32
}

// Data returns the module bytes.
func (m Module) Data() bview.View { return m.data }

// Offset returns the absolute offset of the module start in the image.
func (m Module) Offset() uint32 { return m.offset }

// Len returns the module size in bytes.
func (m Module) Len() uint32 { return m.data.Len() }

// Title returns the module title string.
func (m Module) Title() (bview.View, error) {
	return m.cstringAt(titleField)
}

// Help returns the module help string, or ErrNoHelpString when the module
// declares none.
func (m Module) Help() (bview.View, error) {
	if off, err := m.data.WordAt(helpField); err == nil && off == 0 {
		return bview.View{}, ErrNoHelpString
	}
	return m.cstringAt(helpField)
}

func (m Module) cstringAt(field uint32) (bview.View, error) {
	off, err := m.data.WordAt(field)
	if err != nil {
		return bview.View{}, ErrUnterminatedCString
	}
	rest, err := m.data.SubrangeFrom(off)
	if err != nil {
		return bview.View{}, ErrUnterminatedCString
	}
	s, err := rest.CString()
	if err != nil {
		return bview.View{}, ErrUnterminatedCString
	}
	return s, nil
}

// Header holds the module header words. Offsets are relative to the module
// start; zero means the entry is absent.
type Header struct {
	Start          uint32 `json:"start"`
	Init           uint32 `json:"init"`
	Final          uint32 `json:"final"`
	Service        uint32 `json:"service"`
	Title          uint32 `json:"title"`
	Help           uint32 `json:"help"`
	CommandTable   uint32 `json:"command_table"`
	SWIChunk       uint32 `json:"swi_chunk"`
	SWIHandler     uint32 `json:"swi_handler"`
	SWIDecodeTable uint32 `json:"swi_decode_table"`
	SWIDecodeCode  uint32 `json:"swi_decode_code"`

	// Words is the number of header words that lie inside the module.
	Words int `json:"words"`
}

// Header decodes the module header. Words past the end of the module read
// as zero.
func (m Module) Header() Header {
	var w [headerWords]uint32
	n := 0
	for i := range w {
		v, err := m.data.WordAt(uint32(i) * 4)
		if err != nil {
			break
		}
		w[i] = v
		n++
	}
	return Header{
		Start:          w[0],
		Init:           w[1],
		Final:          w[2],
		Service:        w[3],
		Title:          w[4],
		Help:           w[5],
		CommandTable:   w[6],
		SWIChunk:       w[7],
		SWIHandler:     w[8],
		SWIDecodeTable: w[9],
		SWIDecodeCode:  w[10],
		Words:          n,
	}
}
