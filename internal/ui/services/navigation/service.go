package navigation

// Service handles the scroll offset of the list viewport
type Service struct {
	state   *State
	queryFn func() int // returns the current content height
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 20, // Default, will be updated
		},
	}
}

// SetQueryFunction sets the function to query the content height
func (s *Service) SetQueryFunction(fn func() int) {
	s.queryFn = fn
}

// GetOffset returns the current scroll offset
func (s *Service) GetOffset() int {
	return s.state.Offset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// MaxOffset returns the largest offset that still fills the viewport
func (s *Service) MaxOffset() int {
	s.refresh()
	return max(0, s.state.ContentHeight-s.state.ViewportHeight)
}

// SetViewportHeight updates viewport height
func (s *Service) SetViewportHeight(height int) {
	s.state.ViewportHeight = max(1, height)
	s.state.Offset = s.clamp(s.state.Offset)
}

// SetOffset moves the viewport to offset and reports whether it moved
func (s *Service) SetOffset(offset int) bool {
	old := s.state.Offset
	s.state.Offset = s.clamp(offset)
	return old != s.state.Offset
}

// Navigate scrolls in a direction and reports whether the offset changed
func (s *Service) Navigate(direction Direction) bool {
	pageSize := max(1, s.state.ViewportHeight-1)

	switch direction {
	case DirectionUp:
		return s.SetOffset(s.state.Offset - 1)
	case DirectionDown:
		return s.SetOffset(s.state.Offset + 1)
	case DirectionPageUp:
		return s.SetOffset(s.state.Offset - pageSize)
	case DirectionPageDown:
		return s.SetOffset(s.state.Offset + pageSize)
	case DirectionHome:
		return s.SetOffset(0)
	case DirectionEnd:
		return s.SetOffset(s.MaxOffset())
	}
	return false
}

func (s *Service) refresh() {
	if s.queryFn != nil {
		s.state.ContentHeight = s.queryFn()
	}
}

func (s *Service) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if maxOffset := s.MaxOffset(); offset > maxOffset {
		return maxOffset
	}
	return offset
}
