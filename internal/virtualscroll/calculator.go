package virtualscroll

import "vscroll/internal/domain"

// Options configures the range calculator
type Options struct {
	// PageSize is the window width in rows when heights are unknown.
	// PageSize <= 0 renders the whole collection.
	PageSize int
	// SegmentSize is how many rows a directional shift adds at the leading edge
	SegmentSize int
	// TriggerRatio derives the trigger band from the container geometry
	TriggerRatio float64
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		PageSize:     100,
		SegmentSize:  20,
		TriggerRatio: DefaultTriggerRatio,
	}
}

// Calculator computes new windows. It holds no state of its own: every
// method is a function of the WindowState, heights and metrics passed in.
type Calculator struct {
	opts Options
}

// NewCalculator creates a calculator, clamping SegmentSize to at least one row
func NewCalculator(opts Options) Calculator {
	if opts.SegmentSize < 1 {
		opts.SegmentSize = 1
	}
	return Calculator{opts: opts}
}

// Options returns the effective options
func (c Calculator) Options() Options {
	return c.opts
}

// ResetRange anchors a fresh window at anchor. With heights == nil the
// window is PageSize rows wide (count mode); otherwise it is grown from the
// anchor until it fills the viewport (height mode).
func (c Calculator) ResetRange(w WindowState, anchor, itemCount int, heights *ItemHeightStore, m ContainerMetrics) WindowState {
	if itemCount < 0 {
		itemCount = 0
	}
	anchor = clampInt(anchor, 0, itemCount)

	var r domain.Range
	if heights == nil {
		r = c.rangeByCount(anchor, itemCount)
	} else {
		heights.MustCover(itemCount)
		r = rangeByHeight(anchor, itemCount, *heights, m.Viewport)
	}
	return w.anchored(clampRange(r, itemCount), anchor)
}

func (c Calculator) rangeByCount(anchor, itemCount int) domain.Range {
	pageSize := c.opts.PageSize
	if pageSize <= 0 || pageSize >= itemCount {
		return domain.Range{Start: 0, Stop: itemCount}
	}

	start := anchor
	stop := start + pageSize
	if stop >= itemCount {
		stop = itemCount
		start = stop - pageSize
	}
	return domain.Range{Start: start, Stop: stop}
}

func rangeByHeight(anchor, itemCount int, heights ItemHeightStore, viewport float64) domain.Range {
	sum := 0.0
	for i := anchor; i < itemCount; i++ {
		h := heights.Height(i)
		if sum+h > viewport {
			// stop is exclusive: keep the row that overflowed
			return domain.Range{Start: anchor, Stop: i + 1}
		}
		sum += h
	}

	// The tail fits: pull start back so the viewport is used in full
	return domain.Range{Start: fillFromTail(itemCount, heights, viewport), Stop: itemCount}
}

// fillFromTail walks backward from the last row and returns the start of a
// window ending at itemCount that fills the viewport. It mirrors the
// forward rule, so the window reaches one row past the overflowing one.
func fillFromTail(itemCount int, heights ItemHeightStore, viewport float64) int {
	sum := 0.0
	for i := itemCount - 1; i >= 0; i-- {
		h := heights.Height(i)
		if sum+h > viewport {
			return max(i-1, 0)
		}
		sum += h
	}
	return 0
}

// ShiftRangeToScrollPosition rebuilds the window around scrollTop, used when
// the scrollbar is dragged far enough that shifting would not keep up.
func (c Calculator) ShiftRangeToScrollPosition(w WindowState, itemCount int, heights ItemHeightStore, m ContainerMetrics, scrollTop float64) WindowState {
	heights.MustCover(itemCount)
	pageSize := c.opts.PageSize
	if pageSize <= 0 {
		return w.next(domain.Range{Start: 0, Stop: itemCount}, w.Range)
	}

	threshold := scrollTop - m.Trigger
	start := 0
	sum := 0.0
	for start < itemCount && sum+heights.Height(start) <= threshold {
		sum += heights.Height(start)
		start++
	}

	start = max(start-pageSize/2, 0)
	stop := min(start+pageSize, itemCount)

	// Near the end fewer than pageSize rows would remain; move start back
	if stop == itemCount {
		if missing := pageSize - (stop - start); missing > 0 {
			start = max(start-missing, 0)
		}
	}

	return w.next(clampRange(domain.Range{Start: start, Stop: stop}, itemCount), w.Range)
}

// ShiftRange extends the window by SegmentSize rows toward d and hides the
// trailing rows that are no longer needed. The returned flag reports that
// more data should be loaded in direction d: either the window already
// touches that data boundary, or it ended up closer to it than one segment.
func (c Calculator) ShiftRange(w WindowState, itemCount int, heights ItemHeightStore, m ContainerMetrics, d domain.Direction) (WindowState, bool) {
	r := clampRange(w.Range, itemCount)
	if atEdge(r, d, itemCount) {
		return w.shifted(r, r, d), true
	}
	heights.MustCover(itemCount)

	seg := c.opts.SegmentSize
	grown := grow(r, d, seg, itemCount)
	next := hideTrailing(grown, d, heights, m)

	edge := distanceToEdge(next, d, itemCount) < seg
	return w.shifted(next, r, d), edge
}

// InsertItems patches heights for count rows inserted at index and moves the
// window so it stays anchored on the rows the user was looking at. Heights
// are patched before the window is recomputed. Inserting at the window start
// counts as Up.
func (c Calculator) InsertItems(w WindowState, itemCount int, heights ItemHeightStore, m ContainerMetrics, index, count int) (WindowState, ItemHeightStore) {
	if count <= 0 {
		return w.next(w.Range, w.Range), heights
	}
	index = clampInt(index, 0, itemCount)
	patched := heights.InsertAt(index, count)
	newCount := itemCount + count
	patched.MustCover(newCount)

	r := clampRange(w.Range, itemCount)
	var prev, grown domain.Range
	d := domain.DirectionDown
	if index <= r.Start {
		d = domain.DirectionUp
		// the same rows, now count further down; grow back over the gap
		prev = domain.Range{Start: r.Start + count, Stop: r.Stop + count}
		grown = grow(prev, d, count, newCount)
	} else {
		prev = r
		if index < r.Stop {
			prev.Stop += count
		}
		grown = r
		if index <= r.Stop {
			grown.Stop = min(r.Stop+count, newCount)
		}
	}

	next := hideTrailing(clampRange(grown, newCount), d, patched, m)
	return w.shifted(next, prev, d), patched
}

// RemoveItems patches heights for count rows removed at index and refills
// the window to its previous size. Removing at the window start counts as Down.
func (c Calculator) RemoveItems(w WindowState, itemCount int, heights ItemHeightStore, m ContainerMetrics, index, count int) (WindowState, ItemHeightStore) {
	index = clampInt(index, 0, itemCount)
	count = clampInt(count, 0, itemCount-index)
	if count == 0 {
		return w.next(w.Range, w.Range), heights
	}
	patched := heights.RemoveAt(index, count)
	newCount := itemCount - count
	patched.MustCover(newCount)

	r := clampRange(w.Range, itemCount)
	d := domain.DirectionDown
	if index < r.Start {
		d = domain.DirectionUp
	}

	removedBefore := func(i int) int {
		return max(0, min(i, index+count)-index)
	}
	prev := domain.Range{
		Start: r.Start - removedBefore(r.Start),
		Stop:  r.Stop - removedBefore(r.Stop),
	}

	grown := grow(prev, d, r.Len()-prev.Len(), newCount)
	if short := r.Len() - grown.Len(); short > 0 {
		grown = grow(grown, d.Opposite(), short, newCount)
	}

	next := hideTrailing(clampRange(grown, newCount), d, patched, m)
	return w.shifted(next, prev, d), patched
}

func atEdge(r domain.Range, d domain.Direction, itemCount int) bool {
	if d == domain.DirectionUp {
		return r.Start == 0
	}
	return r.Stop >= itemCount
}

func distanceToEdge(r domain.Range, d domain.Direction, itemCount int) int {
	if d == domain.DirectionUp {
		return r.Start
	}
	return itemCount - r.Stop
}

// grow moves the leading edge of r by n rows toward d
func grow(r domain.Range, d domain.Direction, n, itemCount int) domain.Range {
	if n <= 0 {
		return r
	}
	if d == domain.DirectionUp {
		r.Start = max(0, r.Start-n)
	} else {
		r.Stop = min(itemCount, r.Stop+n)
	}
	return r
}

// hideTrailing drops rows from the edge opposite to d while the rest of the
// window still covers two viewports plus the trigger band. Unmeasured rows
// have no height and so never count toward that coverage. At least one row
// is kept.
func hideTrailing(r domain.Range, d domain.Direction, heights ItemHeightStore, m ContainerMetrics) domain.Range {
	buffer := 2*m.Viewport + m.Trigger
	if buffer <= 0 || r.Len() <= 1 {
		return r
	}

	remaining := heights.Sum(r.Start, r.Stop)
	for r.Len() > 1 {
		i := r.Start
		if d == domain.DirectionUp {
			i = r.Stop - 1
		}
		h := heights.Height(i)
		if remaining-h < buffer {
			break
		}
		remaining -= h
		if d == domain.DirectionUp {
			r.Stop--
		} else {
			r.Start++
		}
	}
	return r
}
