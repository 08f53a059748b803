package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"

	"vscroll/internal/domain"
)

// Source produces rows page by page in either direction
type Source interface {
	// Fetch returns up to limit rows continuing in direction d. Up pages are
	// returned in display order, so they can be prepended as is. exhausted
	// reports that d has no rows left after this page.
	Fetch(ctx context.Context, d domain.Direction, limit int) (rows []domain.Row, exhausted bool, err error)
}

// SyntheticSource generates deterministic rows on both sides of row 0.
// Every row has between one and maxLines lines of detail, so rendered
// heights vary.
type SyntheticSource struct {
	mu       sync.Mutex
	rows     int
	maxLines int
	seed     int64
	up       int // next index to emit going up, counting down from -1
	down     int // next index to emit going down
}

// NewSyntheticSource creates a source holding rows rows in each direction
func NewSyntheticSource(rows, maxLines int, seed int64) *SyntheticSource {
	return &SyntheticSource{
		rows:     rows,
		maxLines: max(1, maxLines),
		seed:     seed,
		up:       -1,
	}
}

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa",
}

func (s *SyntheticSource) Fetch(ctx context.Context, d domain.Direction, limit int) ([]domain.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []domain.Row
	if d == domain.DirectionUp {
		for len(rows) < limit && s.up >= -s.rows {
			rows = append(rows, s.row(s.up))
			s.up--
		}
		// generated bottom-up, displayed top-down
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		return rows, s.up < -s.rows, nil
	}

	for len(rows) < limit && s.down < s.rows {
		rows = append(rows, s.row(s.down))
		s.down++
	}
	return rows, s.down >= s.rows, nil
}

func (s *SyntheticSource) row(i int) domain.Row {
	r := rand.New(rand.NewSource(s.seed ^ int64(i)*7919))
	lines := 1 + r.Intn(s.maxLines)

	detail := make([]string, lines-1)
	for j := range detail {
		detail[j] = fmt.Sprintf("%s %s %d", words[r.Intn(len(words))], words[r.Intn(len(words))], r.Intn(1000))
	}

	return domain.Row{
		Key:    fmt.Sprintf("row-%d", i),
		Title:  fmt.Sprintf("Row %d %s", i, words[r.Intn(len(words))]),
		Detail: strings.Join(detail, "\n"),
	}
}

// maxWalkDepth limits how deep DirSource descends
const maxWalkDepth = 8

// DirSource lists the files below a root directory. The walk runs in the
// background and is consumed page by page going down; there is nothing above
// the first file.
type DirSource struct {
	root string

	once   sync.Once
	cancel context.CancelFunc
	rows   chan domain.Row
	errMu  sync.Mutex
	err    error
}

// NewDirSource creates a source for the files under root
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

func (s *DirSource) Fetch(ctx context.Context, d domain.Direction, limit int) ([]domain.Row, bool, error) {
	if d == domain.DirectionUp {
		return nil, true, nil
	}
	s.once.Do(s.start)

	var rows []domain.Row
	for len(rows) < limit {
		select {
		case <-ctx.Done():
			return rows, false, ctx.Err()
		case row, ok := <-s.rows:
			if !ok {
				return rows, true, s.walkErr()
			}
			rows = append(rows, row)
		}
	}
	return rows, false, nil
}

// Close stops the background walk
func (s *DirSource) Close() {
	s.once.Do(func() {})
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *DirSource) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.rows = make(chan domain.Row, 256)

	go func() {
		defer close(s.rows)
		if err := s.walk(ctx); err != nil && err != context.Canceled {
			log.Printf("Loader: failed to walk %s: %v", s.root, err)
			s.errMu.Lock()
			s.err = fmt.Errorf("failed to walk %s: %w", s.root, err)
			s.errMu.Unlock()
		}
	}()
}

func (s *DirSource) walkErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *DirSource) walk(ctx context.Context) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Printf("Loader: error walking path %s: %v", path, err)
			return nil
		}

		rel, _ := filepath.Rel(s.root, path)
		if d.IsDir() {
			if path != s.root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if strings.Count(rel, string(filepath.Separator)) >= maxWalkDepth {
				return filepath.SkipDir
			}
			return nil
		}

		row := domain.Row{Key: path, Title: filepath.ToSlash(rel)}
		if info, err := d.Info(); err == nil {
			row.Detail = fmt.Sprintf("%s  %d bytes  %s", info.Mode(), info.Size(), info.ModTime().Format("2006-01-02 15:04"))
		}

		select {
		case s.rows <- row:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// skipDir reports directories that are never worth listing
func skipDir(name string) bool {
	switch name {
	case "node_modules", "vendor", "target", "build", "dist", "__pycache__", ".venv", "venv":
		return true
	}
	return strings.HasPrefix(name, ".")
}
