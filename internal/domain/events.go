package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRangeChanged         EventType = "RangeChanged"
	EventLoadMoreRequested    EventType = "LoadMoreRequested"
	EventActiveElementChanged EventType = "ActiveElementChanged"
	EventScrollRestoreNeeded  EventType = "ScrollRestoreNeeded"
	EventPageLoaded           EventType = "PageLoaded"
	EventSourceExhausted      EventType = "SourceExhausted"
	EventError                EventType = "Error"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// RangeChangedEvent is emitted when the materialized window actually changes
type RangeChangedEvent struct {
	Range        Range
	Prev         Range
	Placeholders Placeholders
}

func (e RangeChangedEvent) Type() EventType { return EventRangeChanged }

// LoadMoreRequestedEvent is emitted when the window reaches a data edge
type LoadMoreRequestedEvent struct {
	Direction Direction
}

func (e LoadMoreRequestedEvent) Type() EventType { return EventLoadMoreRequested }

// ActiveElementChangedEvent is emitted as the user scrolls past rows
type ActiveElementChangedEvent struct {
	Key   string
	Index int
}

func (e ActiveElementChangedEvent) Type() EventType { return EventActiveElementChanged }

// ScrollRestoreNeededEvent is emitted when a range change will need a
// compensating scroll position after the next paint
type ScrollRestoreNeededEvent struct {
	Range Range
}

func (e ScrollRestoreNeededEvent) Type() EventType { return EventScrollRestoreNeeded }

// PageLoadedEvent is emitted when the loader appended or prepended rows
type PageLoadedEvent struct {
	Direction Direction
	Count     int
	Total     int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// SourceExhaustedEvent is emitted when a source has no more rows in a direction
type SourceExhaustedEvent struct {
	Direction Direction
}

func (e SourceExhaustedEvent) Type() EventType { return EventSourceExhausted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
