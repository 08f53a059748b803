package virtualscroll

import (
	"errors"
	"fmt"
	"log"

	"vscroll/internal/domain"
)

var (
	// ErrUnknownKey is returned by ScrollToItem for a key the collection does not hold
	ErrUnknownKey = errors.New("unknown item key")
	// ErrNotMounted is returned when an operation runs before Mount
	ErrNotMounted = errors.New("virtual scroll is not mounted")
	// ErrDestroyed is returned when an operation runs after Destroy
	ErrDestroyed = errors.New("virtual scroll is destroyed")
)

// Phase is the lifecycle state of a Controller
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseReady
	PhaseResetting
	PhaseShifting
	PhasePatching
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReady:
		return "ready"
	case PhaseResetting:
		return "resetting"
	case PhaseShifting:
		return "shifting"
	case PhasePatching:
		return "patching"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Collection is what the controller needs from the owning collection.
// Change notifications must be delivered on the goroutine that drives the
// controller.
type Collection interface {
	Count() int
	IndexByKey(key string) (int, bool)
	KeyAt(index int) (string, bool)
	Subscribe(fn func(domain.CollectionChange)) func()
}

// HeightDeclarer is implemented by collections whose rows declare a height,
// which lets the first window be built in height mode.
type HeightDeclarer interface {
	DeclaredHeights() ([]float64, bool)
}

// Emitter receives the events produced by the controller.
// eventbus.EventBus satisfies it.
type Emitter interface {
	Publish(event domain.DomainEvent)
}

type nopEmitter struct{}

func (nopEmitter) Publish(domain.DomainEvent) {}

// ScrollRequest is the outcome of ScrollToItem
type ScrollRequest struct {
	Index int
	// Position is the scroll position to apply now. Only meaningful when
	// Pending is false.
	Position float64
	// Pending means the window was re-anchored; the position becomes known
	// after the next paint and is returned by AfterRender.
	Pending bool
}

// Controller drives one virtualized list view. It is not safe for
// concurrent use: every call, including collection notifications, must come
// from the same goroutine.
type Controller struct {
	calc    Calculator
	emitter Emitter

	phase       Phase
	collection  Collection
	unsubscribe func()

	itemCount int
	heights   ItemHeightStore
	metrics   ContainerMetrics
	window    WindowState

	// restorePending is set when the consumer must apply a compensating
	// scroll position after the next paint
	restorePending bool
	activeIndex    int
}

// NewController creates a controller. A nil emitter discards events.
func NewController(opts Options, metrics ContainerMetrics, emitter Emitter) *Controller {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &Controller{
		calc:        NewCalculator(opts),
		emitter:     emitter,
		metrics:     metrics,
		activeIndex: -1,
	}
}

// Mount subscribes to collection and builds the first window at anchor.
// Mounting again with another collection replaces the subscription.
func (c *Controller) Mount(collection Collection, anchor int) error {
	if c.phase == PhaseDestroyed {
		return ErrDestroyed
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.collection = collection
	c.unsubscribe = collection.Subscribe(c.handleChange)

	log.Printf("VirtualScroll: mounting %d items at %d", collection.Count(), anchor)
	c.resetCollection(anchor)
	return nil
}

// Destroy drops the collection subscription. The controller is unusable afterwards.
func (c *Controller) Destroy() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.restorePending = false
	c.phase = PhaseDestroyed
}

// Reset re-anchors the window at anchor, keeping measured heights
func (c *Controller) Reset(anchor int) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.phase = PhaseResetting
	defer c.done()

	var heights *ItemHeightStore
	if c.allMeasured() {
		heights = &c.heights
	}
	c.apply(c.calc.ResetRange(c.window, anchor, c.itemCount, heights, c.metrics))
	return nil
}

// Resize merges new container geometry
func (c *Controller) Resize(u MetricsUpdate) {
	c.metrics = c.metrics.Merge(u, c.calc.Options().TriggerRatio)
}

// SetHeights replaces every row height, e.g. after a full remeasure
func (c *Controller) SetHeights(heights []float64) {
	c.heights = c.heights.SetAll(heights)
	c.heights.MustCover(c.itemCount)
}

// UpdateItems stores measured heights for the rows starting at start,
// normally the rendered window after a paint.
func (c *Controller) UpdateItems(start int, heights []float64) {
	c.heights = c.heights.Measure(start, heights)
	c.heights.MustCover(c.itemCount)
}

// Scrolled records a plain scroll and reports the active row when it changes
func (c *Controller) Scrolled(scrollTop float64) {
	if c.phase != PhaseReady {
		return
	}
	c.metrics.ScrollTop = nonNegative(scrollTop)

	idx, ok := GetActiveElementIndex(c.window, c.heights, c.metrics, c.metrics.ScrollTop)
	if !ok || idx == c.activeIndex {
		return
	}
	key, ok := c.collection.KeyAt(idx)
	if !ok {
		return
	}
	c.activeIndex = idx
	c.emitter.Publish(domain.ActiveElementChangedEvent{Key: key, Index: idx})
}

// ScrollbarMoved rebuilds the window around scrollTop
func (c *Controller) ScrollbarMoved(scrollTop float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.phase = PhaseShifting
	defer c.done()

	c.metrics.ScrollTop = nonNegative(scrollTop)
	c.apply(c.calc.ShiftRangeToScrollPosition(c.window, c.itemCount, c.heights, c.metrics, c.metrics.ScrollTop))
	return nil
}

// TriggerVisible shifts the window toward d because the trigger band on that
// side became visible. It returns true when more data was requested.
func (c *Controller) TriggerVisible(d domain.Direction) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	c.phase = PhaseShifting
	defer c.done()

	w, edge := c.calc.ShiftRange(c.window, c.itemCount, c.heights, c.metrics, d)
	c.apply(w)
	if edge {
		log.Printf("VirtualScroll: edge reached %s at %s", d, w.Range)
		c.emitter.Publish(domain.LoadMoreRequestedEvent{Direction: d})
	}
	return edge, nil
}

// Apply patches the engine for a structural change of the collection
func (c *Controller) Apply(change domain.CollectionChange) error {
	if err := c.ready(); err != nil {
		return err
	}

	switch change.Kind {
	case domain.ChangeInsert:
		c.phase = PhasePatching
		defer c.done()
		// a structural patch invalidates any target computed before it
		c.restorePending = false
		w, heights := c.calc.InsertItems(c.window, c.itemCount, c.heights, c.metrics, change.Index, change.Count)
		c.heights = heights
		c.itemCount = heights.Len()
		c.apply(w)
	case domain.ChangeRemove:
		c.phase = PhasePatching
		defer c.done()
		c.restorePending = false
		w, heights := c.calc.RemoveItems(c.window, c.itemCount, c.heights, c.metrics, change.Index, change.Count)
		c.heights = heights
		c.itemCount = heights.Len()
		c.apply(w)
	case domain.ChangeReset:
		c.resetCollection(change.Index)
	default:
		return fmt.Errorf("unsupported collection change %q", change.Kind)
	}
	return nil
}

// ScrollToItem brings the row with key into view. When the row is already
// reachable the position is returned directly; otherwise the window is
// re-anchored on it and the position is delivered by AfterRender.
func (c *Controller) ScrollToItem(key string) (ScrollRequest, error) {
	if err := c.ready(); err != nil {
		return ScrollRequest{}, err
	}
	index, ok := c.collection.IndexByKey(key)
	if !ok {
		return ScrollRequest{}, fmt.Errorf("failed to scroll to %q: %w", key, ErrUnknownKey)
	}

	if CanScrollToItem(c.window, c.heights, c.metrics, index) {
		return ScrollRequest{Index: index, Position: c.heights.Offset(index)}, nil
	}

	if err := c.Reset(index); err != nil {
		return ScrollRequest{}, err
	}
	return ScrollRequest{Index: index, Pending: true}, nil
}

// AfterRender must be called once the current window has been painted and
// its heights fed back through UpdateItems. It returns the scroll position
// the consumer has to apply, if any.
func (c *Controller) AfterRender() (float64, bool) {
	if !c.restorePending {
		return 0, false
	}
	c.restorePending = false
	pos := GetPositionToRestore(c.window, c.heights, c.metrics.ScrollTop)
	c.metrics.ScrollTop = pos
	return pos, true
}

// Range returns the window to materialize
func (c *Controller) Range() domain.Range {
	return c.window.Range
}

// Window returns the full window state
func (c *Controller) Window() WindowState {
	return c.window
}

// Placeholders returns the spacer heights around the window
func (c *Controller) Placeholders() domain.Placeholders {
	return GetPlaceholders(c.window.Range, c.heights)
}

// Heights returns the current height store
func (c *Controller) Heights() ItemHeightStore {
	return c.heights
}

// Metrics returns the current container metrics
func (c *Controller) Metrics() ContainerMetrics {
	return c.metrics
}

// ItemCount returns the number of rows the engine tracks
func (c *Controller) ItemCount() int {
	return c.itemCount
}

// Phase returns the lifecycle phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// RestorePending reports whether AfterRender will return a position
func (c *Controller) RestorePending() bool {
	return c.restorePending
}

func (c *Controller) handleChange(change domain.CollectionChange) {
	if err := c.Apply(change); err != nil {
		log.Printf("VirtualScroll: failed to apply %s change: %v", change.Kind, err)
	}
}

// resetCollection replaces the height store wholesale and anchors a new window
func (c *Controller) resetCollection(anchor int) {
	c.phase = PhaseResetting
	defer c.done()

	c.itemCount = c.collection.Count()
	c.activeIndex = -1

	var heights *ItemHeightStore
	if d, ok := c.collection.(HeightDeclarer); ok {
		if declared, ok := d.DeclaredHeights(); ok && len(declared) >= c.itemCount {
			store := NewItemHeightStore(declared[:c.itemCount])
			heights = &store
		}
	}
	if heights != nil {
		c.heights = *heights
	} else {
		c.heights = ItemHeightStore{}.InsertAt(0, c.itemCount)
	}

	c.apply(c.calc.ResetRange(c.window, anchor, c.itemCount, heights, c.metrics))
}

// apply installs w, emits RangeChanged when the window moved and records
// whether a restoration is due.
func (c *Controller) apply(w WindowState) {
	c.heights.MustCover(c.itemCount)
	c.window = w

	if w.NeedsRestore() {
		c.restorePending = true
		c.emitter.Publish(domain.ScrollRestoreNeededEvent{Range: w.Range})
	}

	if w.Changed {
		c.emitter.Publish(domain.RangeChangedEvent{
			Range:        w.Range,
			Prev:         w.Prev,
			Placeholders: GetPlaceholders(w.Range, c.heights),
		})
	}
}

func (c *Controller) allMeasured() bool {
	for i := 0; i < c.itemCount; i++ {
		if !c.heights.IsMeasured(i) {
			return false
		}
	}
	return c.itemCount > 0
}

func (c *Controller) ready() error {
	switch c.phase {
	case PhaseUninitialized:
		return ErrNotMounted
	case PhaseDestroyed:
		return ErrDestroyed
	}
	return nil
}

func (c *Controller) done() {
	if c.phase != PhaseDestroyed {
		c.phase = PhaseReady
	}
}
