package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"roxtract/internal/disasm"
	"roxtract/internal/report"
	"roxtract/internal/rom"
	"roxtract/internal/roxtract/styles"
	"roxtract/internal/ui/colorize"
)

type viewMode int

const (
	viewSummary viewMode = iota
	viewModules
	viewDetails
)

const (
	initPeekInsns = 12
	hexDumpBytes  = 256
)

type moduleItem struct {
	info   report.ModuleInfo
	module rom.Module
}

func (i moduleItem) Title() string {
	return fmt.Sprintf("%06x  %s", i.info.Offset, i.displayTitle())
}

func (i moduleItem) Description() string { return "" }

func (i moduleItem) FilterValue() string {
	return fmt.Sprintf("%x %s", i.info.Offset, i.info.Title)
}

func (i moduleItem) displayTitle() string {
	if i.info.Error != "" {
		return "[title unreadable]"
	}
	return i.info.Title
}

// Custom item delegate for the modules list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(moduleItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := styles.Address
	if index == m.Index() {
		indicator = ">"
		addrStyle = styles.SelectedAddress
	}

	title := styles.ModuleTitle.Render(i.displayTitle())
	if i.info.Error != "" {
		title = styles.Broken.Render(i.displayTitle())
	}

	fmt.Fprintf(w, " %s  %s  %s",
		indicator,
		addrStyle.Render(fmt.Sprintf("%06x", i.info.Offset)),
		title)
}

type model struct {
	summary     viewport.Model
	modulesList list.Model
	details     viewport.Model
	mode        viewMode
	report      *report.Report
	width       int
	height      int
}

// NewModel builds the module browser for r. rep must have been built from r.
func NewModel(r *rom.Rom, rep *report.Report) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	items := make([]list.Item, 0, len(rep.Modules))
	i := 0
	for m := range r.Modules() {
		if i >= len(rep.Modules) {
			break
		}
		items = append(items, moduleItem{info: rep.Modules[i], module: m})
		i++
	}

	modulesList := list.New(items, itemDelegate{}, 80, 24)
	modulesList.SetShowStatusBar(false)
	modulesList.SetFilteringEnabled(true)
	modulesList.Title = fmt.Sprintf("Modules (%d total)", len(items))
	modulesList.Styles.Title = styles.ListTitle
	modulesList.SetShowHelp(true)

	dvp := viewport.New()
	dvp.SetWidth(80)
	dvp.SetHeight(24)

	m := model{
		summary:     vp,
		modulesList: modulesList,
		details:     dvp,
		mode:        viewSummary,
		report:      rep,
		width:       80,
		height:      24,
	}
	m.updateSummary()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)
			m.modulesList.SetWidth(msg.Width)
			m.modulesList.SetHeight(msg.Height - 2)
			m.details.SetWidth(msg.Width)
			m.details.SetHeight(msg.Height - 2)

			m.updateSummary()
		}

	case tea.KeyMsg:
		// Let the list handle keys while filtering
		if m.mode == viewModules && m.modulesList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.mode = viewSummary
			return m, nil
		case "m":
			m.mode = viewModules
			return m, nil
		case "esc":
			if m.mode == viewDetails {
				m.mode = viewModules
				return m, nil
			}
		case "enter":
			if m.mode == viewModules {
				if item, ok := m.modulesList.SelectedItem().(moduleItem); ok {
					m.details.SetContent(moduleDetails(item, m.width))
					m.details.GotoTop()
					m.mode = viewDetails
				}
				return m, nil
			}
		case "tab":
			switch m.mode {
			case viewSummary:
				m.mode = viewModules
			default:
				m.mode = viewSummary
			}
			return m, nil
		}
	}

	switch m.mode {
	case viewModules:
		m.modulesList, cmd = m.modulesList.Update(msg)
	case viewDetails:
		m.details, cmd = m.details.Update(msg)
	default:
		m.summary, cmd = m.summary.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewModules:
		content = m.modulesList.View()
	case viewDetails:
		content = m.details.View()
	default:
		content = m.summary.View()
	}

	return content + "\n" + styles.Menu.Width(m.width).Render(m.menu())
}

func (m model) menu() string {
	switch m.mode {
	case viewModules:
		return " Enter: details • /: filter • S: summary • Tab: cycle • Q: quit "
	case viewDetails:
		return " Esc: back • M: modules • S: summary • Q: quit "
	default:
		return " M: modules • Tab: cycle • Q: quit "
	}
}

func (m *model) updateSummary() {
	width := m.width
	if width == 0 {
		width = 80
	}
	rendered := styles.RenderMarkdown(m.report.Markdown(), width-2)
	m.summary.SetContent(strings.TrimSuffix(rendered, "\n"))
}

// moduleDetails renders the header, help, init entry and leading bytes of
// one module.
func moduleDetails(item moduleItem, width int) string {
	info := item.info
	h := info.Header

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", item.displayTitle())
	if info.Error != "" {
		fmt.Fprintf(&md, "> %s\n\n", info.Error)
	}
	if info.Help != "" {
		fmt.Fprintf(&md, "%s\n\n", info.Help)
	}
	fmt.Fprintf(&md, "- Offset: `%06x`\n- Length: %d bytes\n\n", info.Offset, info.Length)

	md.WriteString("## Header\n\n| Entry | Offset |\n|---|---|\n")
	for _, e := range []struct {
		name string
		off  uint32
	}{
		{"Start", h.Start},
		{"Init", h.Init},
		{"Final", h.Final},
		{"Service", h.Service},
		{"Title", h.Title},
		{"Help", h.Help},
		{"Commands", h.CommandTable},
		{"SWI chunk", h.SWIChunk},
		{"SWI handler", h.SWIHandler},
		{"SWI table", h.SWIDecodeTable},
		{"SWI code", h.SWIDecodeCode},
	} {
		fmt.Fprintf(&md, "| %s | `%x` |\n", e.name, e.off)
	}

	data := item.module.Data()
	n := min(data.Len(), hexDumpBytes)
	head, _ := data.Subrange(0, n)
	fmt.Fprintf(&md, "\n## Bytes\n\n```\n%s```\n", hex.Dump(head.Bytes()))

	if width <= 2 {
		width = 80
	}
	out := styles.RenderMarkdown(md.String(), width-2)

	if h.Init != 0 {
		stream := disasm.Decode(data, h.Init, initPeekInsns, uint64(info.Offset))
		if len(stream) > 0 {
			heading := lipgloss.NewStyle().Bold(true).MarginLeft(2).Render("Init entry")
			out += "\n" + heading + "\n\n" + indent(colorize.ColorizeListing(stream.String()), "  ")
		}
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
