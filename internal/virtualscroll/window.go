package virtualscroll

import "vscroll/internal/domain"

// restoreKind records what the last range operation needs from the
// position restorer.
type restoreKind int

const (
	restoreNone restoreKind = iota
	restoreByDirection
	restoreToAnchor
)

// WindowState is the owned index window plus what is needed to compensate
// the scroll position once the new window has been painted.
type WindowState struct {
	Range domain.Range
	// Prev is the window before the last operation, expressed in the
	// indices that are valid after it.
	Prev domain.Range
	// Changed is set when the last operation actually moved the window.
	Changed bool

	restore   restoreKind
	direction domain.Direction
	anchor    int
}

// next builds the state that follows w after an operation produced r
func (w WindowState) next(r domain.Range, prev domain.Range) WindowState {
	return WindowState{
		Range:   r,
		Prev:    prev,
		Changed: r != w.Range,
	}
}

func (w WindowState) shifted(r, prev domain.Range, d domain.Direction) WindowState {
	out := w.next(r, prev)
	out.restore = restoreByDirection
	out.direction = d
	return out
}

func (w WindowState) anchored(r domain.Range, anchor int) WindowState {
	out := w.next(r, w.Range)
	out.restore = restoreToAnchor
	out.anchor = anchor
	return out
}

// Direction returns the direction of the last directional operation
func (w WindowState) Direction() domain.Direction {
	return w.direction
}

// NeedsRestore reports whether the consumer has to apply a compensating
// scroll position after painting this window.
func (w WindowState) NeedsRestore() bool {
	return w.restore != restoreNone && (w.Changed || w.restore == restoreToAnchor)
}

// clampRange enforces 0 <= start <= stop <= itemCount
func clampRange(r domain.Range, itemCount int) domain.Range {
	if itemCount < 0 {
		itemCount = 0
	}
	r.Stop = clampInt(r.Stop, 0, itemCount)
	r.Start = clampInt(r.Start, 0, r.Stop)
	return r
}
