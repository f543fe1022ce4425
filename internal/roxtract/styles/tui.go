// Package styles holds the colours and text styles of roxtract output.
package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

var (
	ListTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(charmtone.Charple.Hex())).
			MarginLeft(2)

	Address = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Squid.Hex()))

	SelectedAddress = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Malibu.Hex()))

	ModuleTitle = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Zest.Hex()))

	Broken = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Cheeky.Hex()))

	Menu = lipgloss.NewStyle().
		Background(lipgloss.Color(charmtone.Charcoal.Hex())).
		Foreground(lipgloss.Color(charmtone.Smoke.Hex())).
		Padding(0, 1)
)
