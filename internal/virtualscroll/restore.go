package virtualscroll

// CanScrollToItem reports whether index is already rendered and close
// enough to the viewport to be reached without moving the window.
func CanScrollToItem(w WindowState, heights ItemHeightStore, m ContainerMetrics, index int) bool {
	if !w.Range.Contains(index) {
		return false
	}
	return heights.Offset(index)-m.ScrollTop <= m.Viewport-m.Trigger
}

// GetActiveElementIndex returns the row the user is looking at: the last
// rendered row when scrolled to the bottom, the first when scrolled to the
// top, and otherwise the row under the middle of the viewport.
// It returns false for an empty window.
func GetActiveElementIndex(w WindowState, heights ItemHeightStore, m ContainerMetrics, scrollTop float64) (int, bool) {
	r := w.Range
	if r.Len() == 0 {
		return -1, false
	}

	maxScroll := m.MaxScrollTop()
	switch {
	case maxScroll > 0 && scrollTop >= maxScroll:
		return r.Stop - 1, true
	case scrollTop <= 0:
		return r.Start, true
	}

	idx := heights.IndexAtOffset(scrollTop + m.Viewport/2)
	return clampInt(idx, r.Start, r.Stop-1), true
}

// GetPositionToRestore returns the scroll position to apply after the
// window in w has been painted, so that the visible content does not jump.
func GetPositionToRestore(w WindowState, heights ItemHeightStore, scrollTop float64) float64 {
	switch w.restore {
	case restoreByDirection:
		// Content appeared above the old start (Up) or left it (Down)
		return nonNegative(scrollTop + heights.Offset(w.Prev.Start) - heights.Offset(w.Range.Start))
	case restoreToAnchor:
		return heights.Offset(w.anchor)
	default:
		return scrollTop
	}
}
