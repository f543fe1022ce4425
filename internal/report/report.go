// Package report gathers what roxtract extracts from a ROM into one value
// and renders it as plain text, JSON or markdown.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"roxtract/internal/disasm"
	"roxtract/internal/rom"
)

// Report is the JSON output of roxtract.
type Report struct {
	Path             string       `json:"path" jsonschema:"title=Path,description=Image file the report was built from"`
	Size             uint32       `json:"size" jsonschema:"title=Size,description=Image size in bytes"`
	CRC32            string       `json:"crc32" jsonschema:"title=CRC-32,description=IEEE CRC-32 of the whole image"`
	KnownVersion     string       `json:"known_version,omitempty" jsonschema:"description=Catalogued release matched by fingerprint"`
	VersionName      string       `json:"version_name,omitempty" jsonschema:"description=Help string of the UtilityModule"`
	KernelStart      *uint32      `json:"kernel_start,omitempty" jsonschema:"description=Offset just past the MODULE# anchor"`
	ModuleChainStart *uint32      `json:"module_chain_start,omitempty" jsonschema:"description=Offset of the first module length word"`
	Modules          []ModuleInfo `json:"modules"`
	ChainError       string       `json:"chain_error,omitempty"`
	KernelPeek       []string     `json:"kernel_peek,omitempty" jsonschema:"description=Instructions decoded at the kernel start"`
}

// ModuleInfo describes one module of the chain.
type ModuleInfo struct {
	Index  int        `json:"index"`
	Offset uint32     `json:"offset"`
	Length uint32     `json:"length"`
	Title  string     `json:"title"`
	Help   string     `json:"help,omitempty"`
	Error  string     `json:"error,omitempty"`
	Header rom.Header `json:"header"`
}

// Options control optional parts of a report.
type Options struct {
	// KernelPeek is the number of instructions to decode at the kernel start.
	KernelPeek int
}

// Build extracts everything roxtract knows about r. Failures of individual
// lookups are recorded in the report rather than returned.
func Build(path string, r *rom.Rom, opts Options) *Report {
	rep := &Report{
		Path:    filepath.Base(path),
		Size:    r.Len(),
		CRC32:   fmt.Sprintf("%08x", r.CRC32()),
		Modules: []ModuleInfo{},
	}

	if k, ok := r.Identify(); ok {
		rep.KnownVersion = k.Name
	}

	if off, ok := r.KernelStart(); ok {
		rep.KernelStart = &off
		if opts.KernelPeek > 0 {
			for _, in := range disasm.Decode(r.Data(), off, opts.KernelPeek, 0) {
				rep.KernelPeek = append(rep.KernelPeek, fmt.Sprintf("%08x  %s", in.VA, in.Text))
			}
		}
	} else {
		slog.Debug("Kernel anchor not found", "path", path)
	}

	if off, ok := r.ModuleChainStart(); ok {
		rep.ModuleChainStart = &off
	} else {
		slog.Debug("Module chain start not found", "path", path)
		rep.ChainError = rom.ErrUtilityModuleNotFound.Error()
	}

	if name, err := r.VersionName(); err == nil {
		rep.VersionName = EscapeUnprintable(name.Bytes())
	}

	chain := r.ModuleChain()
	for m, ok := chain.Next(); ok; m, ok = chain.Next() {
		info := ModuleInfo{
			Index:  len(rep.Modules),
			Offset: m.Offset(),
			Length: m.Len(),
			Header: m.Header(),
		}
		if title, err := m.Title(); err == nil {
			info.Title = EscapeTitle(title.Bytes())
		} else {
			slog.Debug("Module title unreadable", "offset", fmt.Sprintf("%#x", m.Offset()), "error", err)
			info.Error = err.Error()
		}
		if help, err := m.Help(); err == nil {
			info.Help = EscapeUnprintable(help.Bytes())
		}
		rep.Modules = append(rep.Modules, info)
	}
	if err := chain.Err(); err != nil {
		slog.Debug("Module chain ended early", "error", err, "modules", len(rep.Modules))
		rep.ChainError = err.Error()
	}

	return rep
}
