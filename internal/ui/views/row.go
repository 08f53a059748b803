package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"vscroll/internal/domain"
)

// RowRenderer renders a single row of the list
type RowRenderer struct {
	styles *Styles
}

// NewRowRenderer creates a new row renderer
func NewRowRenderer(styles *Styles) *RowRenderer {
	return &RowRenderer{styles: styles}
}

// Render renders row as one title line followed by its detail lines, each
// cut to width. The height of the result is the row height the engine sees.
func (r *RowRenderer) Render(row domain.Row, width int, active bool) string {
	width = max(1, width)

	titleStyle := r.styles.RowTitle
	marker := "  "
	if active {
		titleStyle = r.styles.ActiveTitle
		marker = "▸ "
	}

	lines := []string{fitLine(titleStyle.Render(marker+row.Title), width)}
	if row.Detail != "" {
		for _, line := range strings.Split(row.Detail, "\n") {
			lines = append(lines, fitLine(r.styles.RowDetail.Render(line), width))
		}
	}

	if active {
		for i, line := range lines {
			lines[i] = r.styles.ActiveBg.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func fitLine(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
