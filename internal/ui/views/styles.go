package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	RowTitle      lipgloss.Style
	RowDetail     lipgloss.Style
	ActiveTitle   lipgloss.Style
	ActiveBg      lipgloss.Style
	Placeholder   lipgloss.Style
	EndOfContent  lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusDone    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		RowTitle:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		RowDetail:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(2),
		ActiveTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ActiveBg:      lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Placeholder:   lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		EndOfContent:  lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
