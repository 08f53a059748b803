package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"vscroll/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	// Lines holds the rendered window, one entry per terminal line. It
	// starts BlockTop lines into the virtual content.
	Lines          []string
	BlockTop       int
	ContentHeight  int
	ScrollTop      int
	ViewportHeight int

	Range        domain.Range
	ItemCount    int
	Placeholders domain.Placeholders
	ActiveKey    string

	ShowPlaceholders bool
	ShowHelp         bool
	LoadingUp        bool
	LoadingDown      bool
	ExhaustedUp      bool
	ExhaustedDown    bool
	StatusMessage    string
	StatusIsError    bool

	HelpModel help.Model
	KeyMap    help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	rows   *RowRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles: styles,
		rows:   NewRowRenderer(styles),
	}
}

// RenderRow renders a single list row
func (r *Renderer) RenderRow(row domain.Row, width int, active bool) string {
	return r.rows.Render(row, width, active)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var content strings.Builder

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(strings.Join(r.renderBody(state), "\n"))
	content.WriteString("\n")
	content.WriteString(r.RenderFooter(state))

	return lipgloss.NewStyle().MaxHeight(state.Height).Render(content.String())
}

// RenderFooter renders the status line and, when enabled, the key help.
// The model measures it to size the list viewport.
func (r *Renderer) RenderFooter(state ViewState) string {
	status := r.renderStatus(state)
	if !state.ShowHelp || state.KeyMap == nil {
		return status
	}
	return status + "\n" + state.HelpModel.View(state.KeyMap)
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("vscroll")

	var indicators []string
	if state.LoadingUp || state.LoadingDown {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, r.styles.StatusLoading.Render(fmt.Sprintf("%s Loading", spinner[frame])))
	}
	if state.ExhaustedUp && state.ExhaustedDown {
		indicators = append(indicators, r.styles.StatusDone.Render("✓ All rows loaded"))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, r.styles.Dim.Render(" | "))
	padding := state.Width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

// renderBody returns exactly ViewportHeight lines of the virtual content
// starting at ScrollTop. Lines outside the rendered window belong to the
// placeholders.
func (r *Renderer) renderBody(state ViewState) []string {
	lines := make([]string, 0, state.ViewportHeight)
	for y := state.ScrollTop; y < state.ScrollTop+state.ViewportHeight; y++ {
		rel := y - state.BlockTop
		switch {
		case rel >= 0 && rel < len(state.Lines):
			lines = append(lines, state.Lines[rel])
		case y < state.ContentHeight && state.ShowPlaceholders:
			lines = append(lines, r.styles.Placeholder.Render("┊"))
		case y >= state.ContentHeight:
			lines = append(lines, r.styles.EndOfContent.Render("~"))
		default:
			lines = append(lines, "")
		}
	}
	return lines
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		return style.Render(state.StatusMessage)
	}

	if state.ItemCount == 0 {
		return r.styles.Dim.Render("No rows yet")
	}

	status := fmt.Sprintf("rows %d-%d of %d  ↑%.0f ↓%.0f lines",
		state.Range.Start, state.Range.Stop, state.ItemCount,
		state.Placeholders.Top, state.Placeholders.Bottom)
	if state.ActiveKey != "" {
		status += "  " + state.ActiveKey
	}
	return r.styles.Status.Render(status)
}
