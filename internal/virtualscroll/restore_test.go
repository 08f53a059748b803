package virtualscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vscroll/internal/domain"
)

func TestCanScrollToItem(t *testing.T) {
	heights := NewItemHeightStore(equalHeights(10, 60))
	w := windowAt(rng(0, 10))
	m := metricsAt(200, 10, 0)

	assert.True(t, CanScrollToItem(w, heights, m, 0))
	assert.True(t, CanScrollToItem(w, heights, m, 3))
	assert.False(t, CanScrollToItem(w, heights, m, 6))
	assert.False(t, CanScrollToItem(w, heights, m, 10))

	m.ScrollTop = 240
	assert.True(t, CanScrollToItem(w, heights, m, 6))
}

func TestGetActiveElementIndex(t *testing.T) {
	heights := NewItemHeightStore(equalHeights(20, 60))
	m := ContainerMetrics{Viewport: 200, ScrollContainer: 1200}

	tests := []struct {
		name      string
		window    WindowState
		scrollTop float64
		want      int
	}{
		{"top", windowAt(rng(0, 20)), 0, 0},
		{"bottom", windowAt(rng(0, 20)), 1000, 19},
		{"middle of the viewport", windowAt(rng(0, 20)), 300, 6},
		{"clamped to the window", windowAt(rng(8, 12)), 300, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := GetActiveElementIndex(tt.window, heights, m, tt.scrollTop)
			assert.True(t, ok)
			assert.Equal(t, tt.want, idx)
		})
	}

	t.Run("empty window", func(t *testing.T) {
		idx, ok := GetActiveElementIndex(windowAt(rng(3, 3)), heights, m, 100)
		assert.False(t, ok)
		assert.Equal(t, -1, idx)
	})
}

func TestGetPositionToRestore(t *testing.T) {
	heights := NewItemHeightStore(equalHeights(20, 60))

	t.Run("no restoration keeps the position", func(t *testing.T) {
		calc := NewCalculator(Options{PageSize: 5, SegmentSize: 1})
		w := calc.ShiftRangeToScrollPosition(windowAt(rng(0, 5)), 20, heights, metricsAt(200, 10, 0), 300)
		assert.Equal(t, 300.0, GetPositionToRestore(w, heights, 300))
	})

	t.Run("never negative", func(t *testing.T) {
		w := WindowState{}.shifted(rng(4, 10), rng(0, 10), domain.DirectionDown)
		assert.Equal(t, 0.0, GetPositionToRestore(w, heights, 100))
	})
}

func TestContainerMetricsMerge(t *testing.T) {
	m := ContainerMetrics{}

	m = m.Merge(MetricsUpdate{Viewport: Float(200), ScrollContainer: Float(600)}, DefaultTriggerRatio)
	assert.InDelta(t, 60.0, m.Trigger, 1e-9)

	t.Run("explicit trigger wins", func(t *testing.T) {
		got := m.Merge(MetricsUpdate{Viewport: Float(100), Trigger: Float(5)}, DefaultTriggerRatio)
		assert.Equal(t, 5.0, got.Trigger)
		assert.Equal(t, 100.0, got.Viewport)
	})

	t.Run("unmeasured container uses the viewport", func(t *testing.T) {
		got := ContainerMetrics{}.Merge(MetricsUpdate{Viewport: Float(100)}, 0.5)
		assert.Equal(t, 50.0, got.Trigger)
	})

	t.Run("scroll alone keeps the trigger", func(t *testing.T) {
		got := m.Merge(MetricsUpdate{ScrollTop: Float(42)}, DefaultTriggerRatio)
		assert.Equal(t, m.Trigger, got.Trigger)
		assert.Equal(t, 42.0, got.ScrollTop)
	})

	t.Run("negative input clamps to zero", func(t *testing.T) {
		got := m.Merge(MetricsUpdate{ScrollTop: Float(-10), Viewport: Float(-1)}, 0)
		assert.Equal(t, 0.0, got.ScrollTop)
		assert.Equal(t, 0.0, got.Viewport)
		assert.Equal(t, m.Trigger, got.Trigger)
	})

	assert.Equal(t, 400.0, m.MaxScrollTop())
}
