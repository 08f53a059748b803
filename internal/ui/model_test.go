package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vscroll/internal/config"
	"vscroll/internal/domain"
	"vscroll/internal/eventbus"
	"vscroll/internal/logic"
	"vscroll/internal/virtualscroll"
)

func makeRows(from, to int) []domain.Row {
	rows := make([]domain.Row, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, domain.Row{Key: fmt.Sprintf("row-%d", i), Title: fmt.Sprintf("Row %d", i)})
	}
	return rows
}

func newTestModel(t *testing.T, n int) *Model {
	t.Helper()
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	store := logic.NewMemoryRowStore()
	require.NoError(t, store.Append(makeRows(0, n)...))

	cfg := config.DefaultConfig()
	cfg.Scroll.PageSize = 10
	cfg.Scroll.SegmentSize = 5

	m := NewModel(bus, cfg, store)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return m
}

func press(m *Model, k string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func TestModelRendersFirstRows(t *testing.T) {
	m := newTestModel(t, 30)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Row 0")
	assert.Equal(t, 0, m.ctrl.Range().Start)
	assert.True(t, m.ctrl.Heights().IsMeasured(0))
	assert.GreaterOrEqual(t, m.ctrl.Heights().Sum(0, m.ctrl.Range().Stop), float64(m.nav.GetViewportHeight()))
}

func TestModelViewBeforeResize(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	m := NewModel(bus, config.DefaultConfig(), logic.NewMemoryRowStore())
	assert.Equal(t, "Loading...", m.View())
}

func TestModelScrollingFollowsWindow(t *testing.T) {
	m := newTestModel(t, 200)

	for i := 0; i < 60; i++ {
		press(m, "j")
	}

	assert.Equal(t, 60, m.nav.GetOffset())
	r := m.ctrl.Range()
	top := m.ctrl.Heights().IndexAtOffset(60)
	assert.True(t, r.Contains(top), "window %s must hold the top row %d", r, top)
	assert.Greater(t, r.Start, 0)
}

func TestModelBottomKeyShowsLastRow(t *testing.T) {
	m := newTestModel(t, 200)

	press(m, "G")

	assert.Equal(t, 199, m.ctrl.Range().Stop-1)
	assert.Contains(t, ansi.Strip(m.View()), "Row 199")
	assert.False(t, m.ctrl.RestorePending())
}

func TestModelPrependKeepsTopRow(t *testing.T) {
	m := newTestModel(t, 50)
	for i := 0; i < 3; i++ {
		press(m, "j")
	}
	m.loading[domain.DirectionUp] = true

	key, delta := m.topAnchor()
	require.NotEmpty(t, key)

	prepended := make([]domain.Row, 0, 5)
	for i := 5; i >= 1; i-- {
		prepended = append(prepended, domain.Row{Key: fmt.Sprintf("row--%d", i), Title: fmt.Sprintf("Row -%d", i)})
	}
	m.Update(PageLoadedMsg{Direction: domain.DirectionUp, Rows: prepended})

	gotKey, gotDelta := m.topAnchor()
	assert.Equal(t, key, gotKey)
	assert.Equal(t, delta, gotDelta)
	assert.False(t, m.loading[domain.DirectionUp])
	assert.Equal(t, 55, m.ctrl.ItemCount())
}

func TestModelEmptyPageClearsLoading(t *testing.T) {
	m := newTestModel(t, 5)
	m.loading[domain.DirectionDown] = true
	m.exhausted[domain.DirectionDown] = true

	m.Update(PageLoadedMsg{Direction: domain.DirectionDown})

	assert.False(t, m.loading[domain.DirectionDown])
	assert.Equal(t, 5, m.ctrl.ItemCount())
}

func TestModelEdgeRequestsMarkLoading(t *testing.T) {
	m := newTestModel(t, 5)

	// five rows never fill the viewport, so both edges ask for more
	assert.True(t, m.loading[domain.DirectionDown])
	assert.True(t, m.loading[domain.DirectionUp])

	m.Update(EventMsg{Event: eventbus.SourceExhaustedEvent{Direction: domain.DirectionUp}})
	assert.True(t, m.exhausted[domain.DirectionUp])
	assert.False(t, m.loading[domain.DirectionUp])
}

func TestModelEvents(t *testing.T) {
	m := newTestModel(t, 30)

	m.Update(EventMsg{Event: eventbus.ActiveElementChangedEvent{Key: "row-3", Index: 3}})
	assert.Equal(t, "row-3", m.activeKey)

	m.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "source failed"}})
	assert.True(t, m.statusIsError)
	assert.Contains(t, ansi.Strip(m.View()), "source failed")

	// the next key press clears the message
	press(m, "j")
	assert.Empty(t, m.statusMessage)
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, 3)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelClose(t *testing.T) {
	m := newTestModel(t, 3)
	m.Close()

	assert.Equal(t, virtualscroll.PhaseDestroyed, m.ctrl.Phase())
	// messages after close must not panic
	m.Update(PageLoadedMsg{Direction: domain.DirectionDown, Rows: makeRows(3, 6)})
}
