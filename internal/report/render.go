package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const untitled = "[title unreadable]"

func hexOr(off *uint32, missing string) string {
	if off == nil {
		return missing
	}
	return fmt.Sprintf("%04x", *off)
}

// WritePlain writes the report in the classic line-oriented format.
func (r *Report) WritePlain(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Kernel starts at %s\n", hexOr(r.KernelStart, "[not found]"))
	for _, line := range r.KernelPeek {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	fmt.Fprintf(&sb, "Module chain starts at %s\n", hexOr(r.ModuleChainStart, "[UtilityModule not found]"))
	for _, m := range r.Modules {
		title := m.Title
		if m.Error != "" {
			title = untitled
		}
		fmt.Fprintf(&sb, "module: %s\n", title)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Summary returns the markdown overview of the image, without the module
// table.
func (r *Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("# roxtract\n\n```\n")
	fmt.Fprintf(&sb, "; %s\n", r.Path)
	fmt.Fprintf(&sb, "; %d bytes, crc32 %s\n", r.Size, r.CRC32)
	if r.KnownVersion != "" {
		fmt.Fprintf(&sb, "; %s\n", r.KnownVersion)
	}
	sb.WriteString("```\n\n")

	sb.WriteString("## Offsets\n\n")
	fmt.Fprintf(&sb, "- Kernel start: `%s`\n", hexOr(r.KernelStart, "not found"))
	fmt.Fprintf(&sb, "- Module chain: `%s`\n", hexOr(r.ModuleChainStart, "not found"))
	if r.VersionName != "" {
		fmt.Fprintf(&sb, "- Version: %s\n", r.VersionName)
	}
	if r.ChainError != "" {
		fmt.Fprintf(&sb, "\n> %s\n", r.ChainError)
	}

	if len(r.KernelPeek) > 0 {
		sb.WriteString("\n## Kernel entry\n\n```\n")
		for _, line := range r.KernelPeek {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("```\n")
	}
	return sb.String()
}

// Markdown returns the whole report as markdown.
func (r *Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString(r.Summary())
	fmt.Fprintf(&sb, "\n## Modules (%d)\n\n", len(r.Modules))
	sb.WriteString("| # | Offset | Length | Title |\n|---|---|---|---|\n")
	for _, m := range r.Modules {
		title := m.Title
		if m.Error != "" {
			title = untitled
		}
		fmt.Fprintf(&sb, "| %d | `%06x` | %d | %s |\n", m.Index, m.Offset, m.Length, escapeCell(title))
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "`", "\\`").Replace(s)
}
