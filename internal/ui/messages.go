package ui

import (
	"time"

	"vscroll/internal/domain"
	"vscroll/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// PageLoadedMsg carries a page fetched by the loader. The rows are added to
// the collection on the UI goroutine.
type PageLoadedMsg struct {
	Direction domain.Direction
	Rows      []domain.Row
}

// tickMsg is sent on a timer for the loading spinner
type tickMsg time.Time

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
