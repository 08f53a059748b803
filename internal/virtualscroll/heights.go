package virtualscroll

import (
	"fmt"
	"sort"
)

// ItemHeightStore holds per-row heights and their prefix-sum offsets.
// Offsets[i] is the sum of heights[0..i). Mutators return a new store and
// never touch the receiver.
type ItemHeightStore struct {
	heights  []float64
	offsets  []float64
	measured []bool
	total    float64
}

// NewItemHeightStore builds a fully measured store from heights
func NewItemHeightStore(heights []float64) ItemHeightStore {
	return ItemHeightStore{}.SetAll(heights)
}

// SetAll replaces every height. All rows are considered measured.
func (s ItemHeightStore) SetAll(heights []float64) ItemHeightStore {
	out := ItemHeightStore{
		heights:  make([]float64, len(heights)),
		measured: make([]bool, len(heights)),
	}
	for i, h := range heights {
		out.heights[i] = clampHeight(h)
		out.measured[i] = true
	}
	out.rebuildOffsets()
	return out
}

// InsertAt inserts count unmeasured zero-height slots so that they occupy
// [index, index+count). index is clamped to [0, Len].
func (s ItemHeightStore) InsertAt(index, count int) ItemHeightStore {
	if count <= 0 {
		return s.clone()
	}
	index = clampInt(index, 0, s.Len())

	n := s.Len() + count
	out := ItemHeightStore{
		heights:  make([]float64, n),
		measured: make([]bool, n),
	}
	copy(out.heights, s.heights[:index])
	copy(out.measured, s.measured[:index])
	copy(out.heights[index+count:], s.heights[index:])
	copy(out.measured[index+count:], s.measured[index:])
	out.rebuildOffsets()
	return out
}

// RemoveAt deletes [index, index+count), clamped to the stored rows
func (s ItemHeightStore) RemoveAt(index, count int) ItemHeightStore {
	index = clampInt(index, 0, s.Len())
	count = clampInt(count, 0, s.Len()-index)
	if count == 0 {
		return s.clone()
	}

	n := s.Len() - count
	out := ItemHeightStore{
		heights:  make([]float64, 0, n),
		measured: make([]bool, 0, n),
	}
	out.heights = append(append(out.heights, s.heights[:index]...), s.heights[index+count:]...)
	out.measured = append(append(out.measured, s.measured[:index]...), s.measured[index+count:]...)
	out.rebuildOffsets()
	return out
}

// Measure stores real heights for the contiguous run starting at start.
// Heights past the end of the store are ignored.
func (s ItemHeightStore) Measure(start int, heights []float64) ItemHeightStore {
	out := s.clone()
	if start < 0 {
		if -start >= len(heights) {
			return out
		}
		heights = heights[-start:]
		start = 0
	}
	for i, h := range heights {
		idx := start + i
		if idx >= out.Len() {
			break
		}
		out.heights[idx] = clampHeight(h)
		out.measured[idx] = true
	}
	out.rebuildOffsets()
	return out
}

// Len returns the number of stored rows
func (s ItemHeightStore) Len() int {
	return len(s.heights)
}

// Height returns the height of row i, or 0 when i is out of range
func (s ItemHeightStore) Height(i int) float64 {
	if i < 0 || i >= len(s.heights) {
		return 0
	}
	return s.heights[i]
}

// IsMeasured reports whether row i carries a real height
func (s ItemHeightStore) IsMeasured(i int) bool {
	return i >= 0 && i < len(s.measured) && s.measured[i]
}

// Unmeasured returns the indices of rows still waiting for a measurement
func (s ItemHeightStore) Unmeasured() []int {
	var out []int
	for i, ok := range s.measured {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// Offset returns the top edge of row i. Offset(Len()) is the total height.
func (s ItemHeightStore) Offset(i int) float64 {
	switch {
	case i <= 0:
		return 0
	case i >= len(s.offsets):
		return s.total
	default:
		return s.offsets[i]
	}
}

// Sum returns the total height of rows [from, to)
func (s ItemHeightStore) Sum(from, to int) float64 {
	if to <= from {
		return 0
	}
	return s.Offset(to) - s.Offset(from)
}

// Total returns the height of every stored row
func (s ItemHeightStore) Total() float64 {
	return s.total
}

// IndexAtOffset returns the row whose [offset, offset+height) interval
// contains px, clamped to the stored rows. An empty store returns 0.
func (s ItemHeightStore) IndexAtOffset(px float64) int {
	n := s.Len()
	if n == 0 || px <= 0 {
		return 0
	}
	// first row whose bottom edge lies past px
	i := sort.Search(n, func(i int) bool {
		return s.offsets[i]+s.heights[i] > px
	})
	if i >= n {
		return n - 1
	}
	return i
}

// Heights returns a copy of the stored heights
func (s ItemHeightStore) Heights() []float64 {
	return append([]float64(nil), s.heights...)
}

// Offsets returns a copy of the stored offsets
func (s ItemHeightStore) Offsets() []float64 {
	return append([]float64(nil), s.offsets...)
}

// MustCover panics when fewer heights than itemCount are stored. Offset math
// past the end of the store would be silently wrong, so this is treated as
// a programming error rather than a recoverable condition.
func (s ItemHeightStore) MustCover(itemCount int) {
	if s.Len() < itemCount {
		panic(fmt.Sprintf("virtualscroll: %d item heights stored for %d items", s.Len(), itemCount))
	}
}

func (s ItemHeightStore) clone() ItemHeightStore {
	return ItemHeightStore{
		heights:  append([]float64(nil), s.heights...),
		offsets:  append([]float64(nil), s.offsets...),
		measured: append([]bool(nil), s.measured...),
		total:    s.total,
	}
}

func (s *ItemHeightStore) rebuildOffsets() {
	s.offsets = make([]float64, len(s.heights))
	sum := 0.0
	for i, h := range s.heights {
		s.offsets[i] = sum
		sum += h
	}
	s.total = sum
}

func clampHeight(h float64) float64 {
	if h < 0 || h != h {
		return 0
	}
	return h
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
