package logic

import (
	"errors"

	"vscroll/internal/domain"
)

var (
	// ErrDuplicateKey is returned when a row key is already present
	ErrDuplicateKey = errors.New("duplicate row key")
	// ErrOutOfRange is returned for an index outside the collection
	ErrOutOfRange = errors.New("index out of range")
)

// ChangeListener is notified after every structural change of a RowStore.
// It runs on the goroutine that made the change.
type ChangeListener func(domain.CollectionChange)

// RowStore provides keyed, ordered access to the browsed rows
type RowStore interface {
	Count() int
	Row(index int) (domain.Row, bool)
	Rows(r domain.Range) []domain.Row
	IndexByKey(key string) (int, bool)
	KeyAt(index int) (string, bool)

	Append(rows ...domain.Row) error
	Prepend(rows ...domain.Row) error
	Insert(index int, rows ...domain.Row) error
	Remove(index, count int) error
	Replace(rows []domain.Row, anchor int) error

	Subscribe(fn func(domain.CollectionChange)) func()
}
