package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vscroll/internal/domain"
	"vscroll/internal/logic"
	"vscroll/internal/virtualscroll"
)

// errSyntax marks script lines that cannot be parsed; they abort the replay
var errSyntax = errors.New("syntax error")

const demoScript = `# 1000 rows of unknown height in a 400px viewport
rows 1000
viewport 400
mount
render 20
scroll 120
trigger down
render 20
trigger down
render 20
scroll 500
insert 0 5
render 30
trigger up
render 30
remove 10 3
render 20
drag 9000
render 20
goto row-3
render 20
destroy
`

// tracer replays a script against a controller and prints what the engine
// does after every step
type tracer struct {
	out   io.Writer
	store *logic.MemoryRowStore
	ctrl  *virtualscroll.Controller

	rowHeight float64
	nextKey   int
	scrollTop float64
	events    []string

	stepStyle  lipgloss.Style
	eventStyle lipgloss.Style
	errStyle   lipgloss.Style
}

func newTracer(out io.Writer, opts virtualscroll.Options, rowHeight float64) *tracer {
	t := &tracer{
		out:        out,
		store:      logic.NewMemoryRowStore(),
		rowHeight:  rowHeight,
		stepStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		eventStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	t.ctrl = virtualscroll.NewController(opts, virtualscroll.ContainerMetrics{}, t)
	return t
}

// Publish records controller events for the current step
func (t *tracer) Publish(event domain.DomainEvent) {
	t.events = append(t.events, describeEvent(event))
}

func describeEvent(event domain.DomainEvent) string {
	switch e := event.(type) {
	case domain.RangeChangedEvent:
		return fmt.Sprintf("RangeChanged %s -> %s  placeholders %.0f/%.0f", e.Prev, e.Range, e.Placeholders.Top, e.Placeholders.Bottom)
	case domain.LoadMoreRequestedEvent:
		return fmt.Sprintf("LoadMoreRequested %s", e.Direction)
	case domain.ActiveElementChangedEvent:
		return fmt.Sprintf("ActiveElementChanged %s (#%d)", e.Key, e.Index)
	case domain.ScrollRestoreNeededEvent:
		return fmt.Sprintf("ScrollRestoreNeeded %s", e.Range)
	default:
		return string(event.Type())
	}
}

// Run replays every line of script. Engine errors are printed and the replay
// goes on; malformed lines stop it.
func (t *tracer) Run(script io.Reader) error {
	scanner := bufio.NewScanner(script)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fmt.Fprintln(t.out, t.stepStyle.Render("> "+text))
		t.events = t.events[:0]
		err := t.step(strings.Fields(text))
		for _, e := range t.events {
			fmt.Fprintln(t.out, "  "+t.eventStyle.Render(e))
		}
		if err != nil {
			if errors.Is(err, errSyntax) {
				return fmt.Errorf("line %d: %w", line, err)
			}
			fmt.Fprintln(t.out, "  "+t.errStyle.Render("error: "+err.Error()))
		}
		fmt.Fprintln(t.out, "  "+t.summary())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

func (t *tracer) summary() string {
	p := t.ctrl.Placeholders()
	return fmt.Sprintf("range %s  items %d  placeholders %.0f/%.0f  scrollTop %.0f  phase %s",
		t.ctrl.Range(), t.ctrl.ItemCount(), p.Top, p.Bottom, t.scrollTop, t.ctrl.Phase())
}

func (t *tracer) step(fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "rows":
		n, err := intArg(args, 0, -1)
		if err != nil {
			return err
		}
		h, err := floatArg(args, 1, 0)
		if err != nil {
			return err
		}
		return t.store.Replace(t.makeRows(n, h), 0)

	case "mount":
		anchor, err := intArg(args, 0, 0)
		if err != nil {
			return err
		}
		return t.ctrl.Mount(t.store, anchor)

	case "viewport", "container":
		v, err := floatArg(args, 0, -1)
		if err != nil {
			return err
		}
		u := virtualscroll.MetricsUpdate{Viewport: virtualscroll.Float(v)}
		if cmd == "container" {
			u = virtualscroll.MetricsUpdate{ScrollContainer: virtualscroll.Float(v)}
		}
		t.ctrl.Resize(u)
		return nil

	case "render":
		h, err := floatArg(args, 0, t.rowHeight)
		if err != nil {
			return err
		}
		t.render(h)
		return nil

	case "scroll", "drag":
		top, err := floatArg(args, 0, -1)
		if err != nil {
			return err
		}
		t.scrollTop = top
		if cmd == "drag" {
			return t.ctrl.ScrollbarMoved(top)
		}
		t.ctrl.Scrolled(top)
		return nil

	case "trigger":
		if len(args) != 1 {
			return fmt.Errorf("%w: trigger takes up or down", errSyntax)
		}
		d := domain.Direction(args[0])
		if d != domain.DirectionUp && d != domain.DirectionDown {
			return fmt.Errorf("%w: unknown direction %q", errSyntax, args[0])
		}
		_, err := t.ctrl.TriggerVisible(d)
		return err

	case "insert":
		index, err := intArg(args, 0, -1)
		if err != nil {
			return err
		}
		count, err := intArg(args, 1, 1)
		if err != nil {
			return err
		}
		return t.store.Insert(index, t.makeRows(count, 0)...)

	case "remove":
		index, err := intArg(args, 0, -1)
		if err != nil {
			return err
		}
		count, err := intArg(args, 1, 1)
		if err != nil {
			return err
		}
		return t.store.Remove(index, count)

	case "goto":
		if len(args) != 1 {
			return fmt.Errorf("%w: goto takes a row key", errSyntax)
		}
		req, err := t.ctrl.ScrollToItem(args[0])
		if err != nil {
			return err
		}
		if req.Pending {
			t.events = append(t.events, fmt.Sprintf("re-anchored on #%d, position follows the next render", req.Index))
			return nil
		}
		t.scrollTop = req.Position
		t.ctrl.Scrolled(req.Position)
		return nil

	case "reset":
		anchor, err := intArg(args, 0, 0)
		if err != nil {
			return err
		}
		return t.ctrl.Reset(anchor)

	case "destroy":
		t.ctrl.Destroy()
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errSyntax, cmd)
}

// render plays the part of the view: every row of the window is measured at
// its declared height or h, and a pending restore position is applied
func (t *tracer) render(h float64) {
	r := t.ctrl.Range()
	heights := make([]float64, r.Len())
	for i, row := range t.store.Rows(r) {
		heights[i] = h
		if row.Height > 0 {
			heights[i] = row.Height
		}
	}
	t.ctrl.UpdateItems(r.Start, heights)
	t.ctrl.Resize(virtualscroll.MetricsUpdate{ScrollContainer: virtualscroll.Float(t.ctrl.Heights().Total())})

	if pos, ok := t.ctrl.AfterRender(); ok {
		t.scrollTop = pos
		t.events = append(t.events, fmt.Sprintf("restore scrollTop %.0f", pos))
		t.ctrl.Scrolled(pos)
	}
}

func (t *tracer) makeRows(n int, h float64) []domain.Row {
	rows := make([]domain.Row, n)
	for i := range rows {
		key := fmt.Sprintf("row-%d", t.nextKey)
		t.nextKey++
		rows[i] = domain.Row{Key: key, Title: key, Height: h}
	}
	return rows
}

// intArg parses args[i]; a negative def makes the argument required
func intArg(args []string, i, def int) (int, error) {
	if i >= len(args) {
		if def < 0 {
			return 0, fmt.Errorf("%w: missing argument %d", errSyntax, i+1)
		}
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q is not a count", errSyntax, args[i])
	}
	return v, nil
}

func floatArg(args []string, i int, def float64) (float64, error) {
	if i >= len(args) {
		if def < 0 {
			return 0, fmt.Errorf("%w: missing argument %d", errSyntax, i+1)
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q is not a size", errSyntax, args[i])
	}
	return v, nil
}
