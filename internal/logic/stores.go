package logic

import (
	"fmt"
	"sync"

	"vscroll/internal/domain"
)

// MemoryRowStore is an in-memory implementation of RowStore
type MemoryRowStore struct {
	mu    sync.RWMutex
	rows  []domain.Row
	index map[string]int

	listenersMu sync.Mutex
	listeners   map[int]ChangeListener
	nextID      int
}

// NewMemoryRowStore creates a new memory-based row store
func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{
		index:     make(map[string]int),
		listeners: make(map[int]ChangeListener),
	}
}

func (s *MemoryRowStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MemoryRowStore) Row(index int) (domain.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.rows) {
		return domain.Row{}, false
	}
	return s.rows[index], true
}

// Rows returns a copy of the rows inside r, clamped to the collection
func (s *MemoryRowStore) Rows(r domain.Range) []domain.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(0, r.Start)
	stop := min(len(s.rows), r.Stop)
	if start >= stop {
		return nil
	}
	out := make([]domain.Row, stop-start)
	copy(out, s.rows[start:stop])
	return out
}

func (s *MemoryRowStore) IndexByKey(key string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[key]
	return i, ok
}

func (s *MemoryRowStore) KeyAt(index int) (string, bool) {
	row, ok := s.Row(index)
	return row.Key, ok
}

func (s *MemoryRowStore) Append(rows ...domain.Row) error {
	return s.Insert(s.Count(), rows...)
}

func (s *MemoryRowStore) Prepend(rows ...domain.Row) error {
	return s.Insert(0, rows...)
}

// Insert places rows so that they occupy [index, index+len(rows))
func (s *MemoryRowStore) Insert(index int, rows ...domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	if index < 0 || index > len(s.rows) {
		n := len(s.rows)
		s.mu.Unlock()
		return fmt.Errorf("failed to insert at %d of %d: %w", index, n, ErrOutOfRange)
	}
	if err := s.checkKeys(rows); err != nil {
		s.mu.Unlock()
		return err
	}

	next := make([]domain.Row, 0, len(s.rows)+len(rows))
	next = append(next, s.rows[:index]...)
	next = append(next, rows...)
	next = append(next, s.rows[index:]...)
	s.rows = next
	s.reindex(index)
	s.mu.Unlock()

	s.notify(domain.CollectionChange{Kind: domain.ChangeInsert, Index: index, Count: len(rows)})
	return nil
}

// Remove deletes count rows starting at index. The count is clamped to the tail.
func (s *MemoryRowStore) Remove(index, count int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.rows) {
		n := len(s.rows)
		s.mu.Unlock()
		return fmt.Errorf("failed to remove at %d of %d: %w", index, n, ErrOutOfRange)
	}
	count = min(count, len(s.rows)-index)
	if count <= 0 {
		s.mu.Unlock()
		return nil
	}

	for _, row := range s.rows[index : index+count] {
		delete(s.index, row.Key)
	}
	s.rows = append(s.rows[:index:index], s.rows[index+count:]...)
	s.reindex(index)
	s.mu.Unlock()

	s.notify(domain.CollectionChange{Kind: domain.ChangeRemove, Index: index, Count: count})
	return nil
}

// Replace swaps the whole content. Listeners receive a reset anchored at anchor.
func (s *MemoryRowStore) Replace(rows []domain.Row, anchor int) error {
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		if _, ok := index[row.Key]; ok {
			return fmt.Errorf("failed to replace rows: %q: %w", row.Key, ErrDuplicateKey)
		}
		index[row.Key] = i
	}

	s.mu.Lock()
	s.rows = append([]domain.Row(nil), rows...)
	s.index = index
	s.mu.Unlock()

	s.notify(domain.CollectionChange{Kind: domain.ChangeReset, Index: anchor})
	return nil
}

// DeclaredHeights returns the declared row heights when every row has one
func (s *MemoryRowStore) DeclaredHeights() ([]float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rows) == 0 {
		return nil, false
	}
	heights := make([]float64, len(s.rows))
	for i, row := range s.rows {
		if row.Height <= 0 {
			return nil, false
		}
		heights[i] = row.Height
	}
	return heights, true
}

// Subscribe registers fn for change notifications and returns an unsubscribe function
func (s *MemoryRowStore) Subscribe(fn func(domain.CollectionChange)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *MemoryRowStore) notify(change domain.CollectionChange) {
	s.listenersMu.Lock()
	listeners := make([]ChangeListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(change)
	}
}

// checkKeys must be called with mu held
func (s *MemoryRowStore) checkKeys(rows []domain.Row) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := s.index[row.Key]; ok {
			return fmt.Errorf("failed to add row %q: %w", row.Key, ErrDuplicateKey)
		}
		if _, ok := seen[row.Key]; ok {
			return fmt.Errorf("failed to add row %q: %w", row.Key, ErrDuplicateKey)
		}
		seen[row.Key] = struct{}{}
	}
	return nil
}

// reindex refreshes key positions from index on; must be called with mu held
func (s *MemoryRowStore) reindex(from int) {
	for i := from; i < len(s.rows); i++ {
		s.index[s.rows[i].Key] = i
	}
}
