package virtualscroll

// DefaultTriggerRatio is the share of min(viewport, container) used as the
// lookahead trigger band when none is set explicitly.
const DefaultTriggerRatio = 0.3

// ContainerMetrics holds the geometry of the scrollable container
type ContainerMetrics struct {
	Viewport        float64 // visible height
	ScrollContainer float64 // full scrollable content height
	Trigger         float64 // lookahead band near the viewport edges
	ScrollTop       float64 // last known scroll position
}

// MetricsUpdate is a partial update; nil fields are left untouched
type MetricsUpdate struct {
	Viewport        *float64
	ScrollContainer *float64
	Trigger         *float64
	ScrollTop       *float64
}

// Merge applies u on top of m. When the viewport or the container height
// changes and u carries no explicit trigger, the trigger is recomputed from
// triggerRatio. A non-positive triggerRatio keeps the current trigger.
func (m ContainerMetrics) Merge(u MetricsUpdate, triggerRatio float64) ContainerMetrics {
	out := m
	resized := false
	if u.Viewport != nil {
		out.Viewport = nonNegative(*u.Viewport)
		resized = true
	}
	if u.ScrollContainer != nil {
		out.ScrollContainer = nonNegative(*u.ScrollContainer)
		resized = true
	}
	if u.ScrollTop != nil {
		out.ScrollTop = nonNegative(*u.ScrollTop)
	}

	switch {
	case u.Trigger != nil:
		out.Trigger = nonNegative(*u.Trigger)
	case resized && triggerRatio > 0:
		out.Trigger = triggerRatio * minPositive(out.ScrollContainer, out.Viewport)
	}
	return out
}

// MaxScrollTop returns the largest reachable scroll position
func (m ContainerMetrics) MaxScrollTop() float64 {
	return nonNegative(m.ScrollContainer - m.Viewport)
}

// Float is a helper for building MetricsUpdate literals
func Float(v float64) *float64 {
	return &v
}

// minPositive ignores a zero side so a container that has not been measured
// yet does not collapse the trigger band.
func minPositive(a, b float64) float64 {
	switch {
	case a <= 0:
		return b
	case b <= 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
