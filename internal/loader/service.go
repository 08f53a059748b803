package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"vscroll/internal/domain"
	"vscroll/internal/eventbus"
)

// ErrLoadInProgress is returned when a page is already being fetched in the
// requested direction
var ErrLoadInProgress = errors.New("load already in progress")

// ErrLoaderStopped is returned by Load after Stop
var ErrLoaderStopped = errors.New("loader stopped")

// Sink receives every fetched page, possibly empty. It is called from the
// loader's goroutine, so implementations hand the rows over to whoever owns
// the collection.
type Sink func(d domain.Direction, rows []domain.Row)

// LoaderService fetches pages from a Source when the view asks for more rows
type LoaderService interface {
	Load(ctx context.Context, d domain.Direction) error
	Exhausted(d domain.Direction) bool
	Stop()
}

// loaderService is the concrete implementation
type loaderService struct {
	bus      eventbus.EventBus
	source   Source
	sink     Sink
	pageSize int

	mu        sync.Mutex
	loading   map[domain.Direction]bool
	exhausted map[domain.Direction]bool
	total     int
	stopped   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	unsubscribe func()
}

// NewLoaderService creates a loader that reacts to LoadMoreRequested events
func NewLoaderService(ctx context.Context, bus eventbus.EventBus, source Source, sink Sink, pageSize int) LoaderService {
	ctx, cancel := context.WithCancel(ctx)
	ls := &loaderService{
		bus:       bus,
		source:    source,
		sink:      sink,
		pageSize:  max(1, pageSize),
		loading:   make(map[domain.Direction]bool),
		exhausted: make(map[domain.Direction]bool),
		ctx:       ctx,
		cancel:    cancel,
	}

	ls.unsubscribe = bus.Subscribe(eventbus.EventLoadMoreRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.LoadMoreRequestedEvent); ok {
			err := ls.Load(ls.ctx, event.Direction)
			if err != nil && !errors.Is(err, ErrLoadInProgress) && !errors.Is(err, ErrLoaderStopped) {
				log.Printf("Loader: %v", err)
			}
		}
	})

	return ls
}

// Load fetches one page in direction d and passes it to the sink
func (ls *loaderService) Load(ctx context.Context, d domain.Direction) error {
	started, err := ls.begin(d)
	if err != nil || !started {
		return err
	}
	defer ls.wg.Done()
	return ls.fetch(ctx, d)
}

// begin marks d as loading and registers the fetch with the wait group.
// It reports false when the source is exhausted in d.
func (ls *loaderService) begin(d domain.Direction) (bool, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.stopped {
		return false, fmt.Errorf("failed to load %s: %w", d, ErrLoaderStopped)
	}
	if ls.exhausted[d] {
		return false, nil
	}
	if ls.loading[d] {
		return false, fmt.Errorf("failed to load %s: %w", d, ErrLoadInProgress)
	}
	ls.loading[d] = true
	ls.wg.Add(1)
	return true, nil
}

func (ls *loaderService) fetch(ctx context.Context, d domain.Direction) error {
	rows, exhausted, err := ls.source.Fetch(ctx, d, ls.pageSize)

	// the direction is free again before the sink sees the page, so the view
	// can ask for the next one right away
	ls.mu.Lock()
	ls.loading[d] = false
	if err == nil {
		ls.total += len(rows)
		if exhausted {
			ls.exhausted[d] = true
		}
	}
	total := ls.total
	ls.mu.Unlock()

	if err != nil {
		ls.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("Failed to load rows %s", d),
			Err:     err,
		})
		return fmt.Errorf("failed to load %s: %w", d, err)
	}

	ls.sink(d, rows)
	log.Printf("Loader: loaded %d rows %s (%d total)", len(rows), d, total)
	ls.bus.Publish(eventbus.PageLoadedEvent{Direction: d, Count: len(rows), Total: total})
	if exhausted {
		ls.bus.Publish(eventbus.SourceExhaustedEvent{Direction: d})
	}
	return nil
}

// Exhausted reports whether the source has no rows left in direction d
func (ls *loaderService) Exhausted(d domain.Direction) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.exhausted[d]
}

// Stop cancels running fetches and waits for them to return
func (ls *loaderService) Stop() {
	ls.mu.Lock()
	ls.stopped = true
	ls.mu.Unlock()

	ls.unsubscribe()
	ls.cancel()
	ls.wg.Wait()
}
