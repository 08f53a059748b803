package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vscroll/internal/config"
	"vscroll/internal/domain"
	"vscroll/internal/eventbus"
	"vscroll/internal/logic"
	"vscroll/internal/ui/services/navigation"
	"vscroll/internal/ui/views"
	"vscroll/internal/virtualscroll"
)

const (
	// maxShiftsPerUpdate bounds how often the window is shifted for a single
	// message while a trigger band stays visible
	maxShiftsPerUpdate = 16
	wheelLines         = 3
	jumpFraction       = 0.1
)

// Model is the list view. Every call into the controller happens on the
// Bubble Tea goroutine, including collection change notifications, because
// rows are only added in Update.
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	store  logic.RowStore
	ctrl   *virtualscroll.Controller

	nav      *navigation.Service
	renderer *views.Renderer
	keys     KeyMap
	help     help.Model
	helpOps  *HelpOps

	width  int
	height int

	// lines is the rendered window, one entry per terminal line
	lines     []string
	activeKey string

	// anchored is set while a re-anchoring reset waits for its paint
	anchored bool

	loading   map[domain.Direction]bool
	exhausted map[domain.Direction]bool

	statusMessage string
	statusIsError bool

	program *tea.Program
}

// NewModel creates the list view and mounts the engine on store
func NewModel(bus eventbus.EventBus, cfg *config.Config, store logic.RowStore) *Model {
	keys := DefaultKeyMap()
	m := &Model{
		bus:       bus,
		config:    cfg,
		store:     store,
		ctrl:      virtualscroll.NewController(cfg.ScrollOptions(), virtualscroll.ContainerMetrics{}, bus),
		nav:       navigation.NewService(),
		renderer:  views.NewRenderer(),
		keys:      keys,
		help:      help.New(),
		loading:   make(map[domain.Direction]bool),
		exhausted: make(map[domain.Direction]bool),
	}
	m.nav.SetQueryFunction(func() int {
		return int(m.ctrl.Heights().Total())
	})

	if err := m.ctrl.Mount(store, 0); err != nil {
		log.Printf("UI: failed to mount list: %v", err)
	}
	m.anchored = true
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Close releases the engine
func (m *Model) Close() {
	m.ctrl.Destroy()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		m.sync()
		m.fill()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-wheelLines)
		case tea.MouseButtonWheelDown:
			m.scrollBy(wheelLines)
		}

	case PageLoadedMsg:
		m.applyPage(msg)

	case EventMsg:
		m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Help pager failed: %v", msg.err))
		}

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.statusMessage = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.LineUp):
		m.scroll(navigation.DirectionUp)
	case key.Matches(msg, m.keys.LineDown):
		m.scroll(navigation.DirectionDown)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(navigation.DirectionPageUp)
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(navigation.DirectionPageDown)
	case key.Matches(msg, m.keys.Top):
		if k, ok := m.store.KeyAt(0); ok {
			m.scrollToKey(k)
		}
	case key.Matches(msg, m.keys.Bottom):
		if k, ok := m.store.KeyAt(m.store.Count() - 1); ok {
			m.scrollToKey(k)
		}
	case key.Matches(msg, m.keys.JumpBack):
		m.jump(-jumpFraction)
	case key.Matches(msg, m.keys.JumpForward):
		m.jump(jumpFraction)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		m.fill()
	case key.Matches(msg, m.keys.Pager):
		if m.helpOps != nil {
			return showHelpPagerCmd(m.helpOps, NewHelpRenderer(m.keys).RenderHelpContent())
		}
	}
	return nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.ActiveElementChangedEvent:
		if e.Key != m.activeKey {
			m.activeKey = e.Key
			m.render()
		}
	case eventbus.SourceExhaustedEvent:
		m.exhausted[e.Direction] = true
		m.loading[e.Direction] = false
	case eventbus.ErrorEvent:
		m.loading[domain.DirectionUp] = false
		m.loading[domain.DirectionDown] = false
		m.setError(e.Message)
	}
}

// scroll moves the viewport and lets the engine follow
func (m *Model) scroll(d navigation.Direction) {
	if m.nav.Navigate(d) {
		m.ctrl.Scrolled(float64(m.nav.GetOffset()))
	}
	m.fill()
}

func (m *Model) scrollBy(lines int) {
	if m.nav.SetOffset(m.nav.GetOffset() + lines) {
		m.ctrl.Scrolled(float64(m.nav.GetOffset()))
	}
	m.fill()
}

// jump behaves like dragging the scrollbar: the window is rebuilt around the
// new position instead of being shifted
func (m *Model) jump(fraction float64) {
	total := m.ctrl.Heights().Total()
	m.nav.SetOffset(m.nav.GetOffset() + int(fraction*total))
	if err := m.ctrl.ScrollbarMoved(float64(m.nav.GetOffset())); err != nil {
		m.setError(err.Error())
		return
	}
	m.sync()
	m.ctrl.Scrolled(float64(m.nav.GetOffset()))
	m.fill()
}

func (m *Model) scrollToKey(k string) {
	req, err := m.ctrl.ScrollToItem(k)
	if err != nil {
		m.setError(err.Error())
		return
	}
	if req.Pending {
		m.anchored = true
		m.sync()
	} else {
		m.nav.SetOffset(int(req.Position))
	}
	m.ctrl.Scrolled(float64(m.nav.GetOffset()))
	m.fill()
}

// applyPage adds a loaded page to the collection. The store notifies the
// controller synchronously, which patches the window.
func (m *Model) applyPage(msg PageLoadedMsg) {
	m.loading[msg.Direction] = false
	if len(msg.Rows) == 0 {
		return
	}

	m.preserve(func() {
		var err error
		if msg.Direction == domain.DirectionUp {
			err = m.store.Prepend(msg.Rows...)
		} else {
			err = m.store.Append(msg.Rows...)
		}
		if err != nil {
			log.Printf("UI: failed to add %d rows: %v", len(msg.Rows), err)
			m.setError(fmt.Sprintf("Failed to add rows: %v", err))
		}
	})
	m.fill()
}

// preserve runs op and then keeps the topmost rendered row of the viewport on
// the same screen line. Rows measured for the first time above the viewport
// would otherwise push the content down.
func (m *Model) preserve(op func()) {
	anchorKey, delta := m.topAnchor()
	op()
	m.sync()

	if anchorKey != "" {
		if idx, ok := m.store.IndexByKey(anchorKey); ok {
			m.nav.SetOffset(int(m.ctrl.Heights().Offset(idx)) + delta)
		}
	}
	m.ctrl.Scrolled(float64(m.nav.GetOffset()))
}

func (m *Model) topAnchor() (string, int) {
	heights := m.ctrl.Heights()
	if heights.Len() == 0 {
		return "", 0
	}
	top := m.nav.GetOffset()
	idx := heights.IndexAtOffset(float64(top))
	// lines above the window are placeholders; anchor on the first rendered row
	if r := m.ctrl.Range(); r.Len() > 0 && idx < r.Start {
		idx = r.Start
	}
	k, ok := m.store.KeyAt(idx)
	if !ok {
		return "", 0
	}
	return k, top - int(heights.Offset(idx))
}

// fill shifts the window while a trigger band is visible, the way an
// intersection observer keeps firing while the user sits at an edge
func (m *Model) fill() {
	for i := 0; i < maxShiftsPerUpdate; i++ {
		d, ok := m.visibleTrigger()
		if !ok {
			return
		}

		before := m.ctrl.Range()
		var edge bool
		m.preserve(func() {
			var err error
			edge, err = m.ctrl.TriggerVisible(d)
			if err != nil {
				log.Printf("UI: failed to shift %s: %v", d, err)
			}
		})
		if edge && !m.exhausted[d] {
			m.loading[d] = true
		}
		// an edge request blocks that side, so keep checking the other one
		if m.ctrl.Range() == before && !edge {
			return
		}
	}
}

// visibleTrigger reports the trigger band that intersects the viewport.
// A band at a data edge counts only while more rows may still arrive there.
func (m *Model) visibleTrigger() (domain.Direction, bool) {
	if m.height == 0 {
		return "", false
	}
	metrics := m.ctrl.Metrics()
	p := m.ctrl.Placeholders()
	r := m.ctrl.Range()
	top := float64(m.nav.GetOffset())
	blockBottom := p.Top + float64(len(m.lines))

	if top+metrics.Viewport > blockBottom-metrics.Trigger && !m.blocked(domain.DirectionDown, r.Stop >= m.ctrl.ItemCount()) {
		return domain.DirectionDown, true
	}
	if top < p.Top+metrics.Trigger && !m.blocked(domain.DirectionUp, r.Start == 0) {
		return domain.DirectionUp, true
	}
	return "", false
}

func (m *Model) blocked(d domain.Direction, atEdge bool) bool {
	return atEdge && (m.exhausted[d] || m.loading[d])
}

// sync renders the window, feeds the measured heights back to the engine and
// applies a pending re-anchoring. It must run after every window change.
func (m *Model) sync() {
	heights := m.render()
	r := m.ctrl.Range()
	m.ctrl.UpdateItems(r.Start, heights)
	m.ctrl.Resize(virtualscroll.MetricsUpdate{
		ScrollContainer: virtualscroll.Float(m.ctrl.Heights().Total()),
	})

	// Directional shifts are compensated by preserve, which keeps the
	// placeholder layout stable; only re-anchoring moves the viewport.
	pos, ok := m.ctrl.AfterRender()
	if ok && m.anchored {
		m.nav.SetOffset(int(pos))
	}
	m.anchored = false
}

// render draws the rows of the window into m.lines and returns their heights
func (m *Model) render() []float64 {
	rows := m.store.Rows(m.ctrl.Range())
	heights := make([]float64, len(rows))
	m.lines = m.lines[:0]
	for i, row := range rows {
		block := m.renderer.RenderRow(row, m.width, row.Key == m.activeKey)
		heights[i] = float64(lipgloss.Height(block))
		m.lines = append(m.lines, strings.Split(block, "\n")...)
	}
	return heights
}

// resize sizes the list viewport to what the title and footer leave over
func (m *Model) resize() {
	footer := lipgloss.Height(m.renderer.RenderFooter(m.viewState()))
	vh := max(1, m.height-1-footer)
	m.nav.SetViewportHeight(vh)
	m.ctrl.Resize(virtualscroll.MetricsUpdate{Viewport: virtualscroll.Float(float64(vh))})
}

func (m *Model) setError(message string) {
	m.statusMessage = message
	m.statusIsError = true
}

func (m *Model) viewState() views.ViewState {
	return views.ViewState{
		Width:            m.width,
		Height:           m.height,
		Lines:            m.lines,
		BlockTop:         int(m.ctrl.Placeholders().Top),
		ContentHeight:    int(m.ctrl.Heights().Total()),
		ScrollTop:        m.nav.GetOffset(),
		ViewportHeight:   m.nav.GetViewportHeight(),
		Range:            m.ctrl.Range(),
		ItemCount:        m.ctrl.ItemCount(),
		Placeholders:     m.ctrl.Placeholders(),
		ActiveKey:        m.activeKey,
		ShowPlaceholders: m.config.UI.ShowPlaceholders,
		ShowHelp:         m.config.UI.ShowHelp,
		LoadingUp:        m.loading[domain.DirectionUp],
		LoadingDown:      m.loading[domain.DirectionDown],
		ExhaustedUp:      m.exhausted[domain.DirectionUp],
		ExhaustedDown:    m.exhausted[domain.DirectionDown],
		StatusMessage:    m.statusMessage,
		StatusIsError:    m.statusIsError,
		HelpModel:        m.help,
		KeyMap:           m.keys,
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewState())
}
