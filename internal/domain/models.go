package domain

import "fmt"

// Range is a half-open [Start, Stop) window of row indices
type Range struct {
	Start int
	Stop  int
}

// Len returns the number of rows in the range
func (r Range) Len() int {
	if r.Stop < r.Start {
		return 0
	}
	return r.Stop - r.Start
}

// Contains reports whether index lies inside the range
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.Stop
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.Stop)
}

// Direction is the edge a window is extended or shifted toward
type Direction string

const (
	DirectionUp   Direction = "up"   // toward index 0
	DirectionDown Direction = "down" // toward the last row
)

// Opposite returns the other direction
func (d Direction) Opposite() Direction {
	if d == DirectionUp {
		return DirectionDown
	}
	return DirectionUp
}

// Placeholders are the virtual spacer heights above and below the rendered window
type Placeholders struct {
	Top    float64
	Bottom float64
}

// Row is a single item of the browsed collection
type Row struct {
	Key    string
	Title  string
	Detail string
	// Height is an optional declared height; zero means unknown until measured
	Height float64
}

// ChangeKind identifies a structural change of a collection
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeRemove ChangeKind = "remove"
	ChangeReset  ChangeKind = "reset"
)

// CollectionChange describes a structural change of a collection.
// For inserts the new rows occupy [Index, Index+Count).
type CollectionChange struct {
	Kind  ChangeKind
	Index int
	Count int
}
