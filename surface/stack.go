package surface

// stack is the ordered sequence of live handles, index 0 at the bottom.
// Creation order is z-order: later handles draw over earlier ones.
type stack struct {
	handles []*Handle
}

// push appends a handle at the top.
func (s *stack) push(h *Handle) {
	s.handles = append(s.handles, h)
}

// pop removes the given handle, which must be the top element. Popping any
// other handle returns a StackDisciplineError.
func (s *stack) pop(h *Handle) error {
	top := s.top()
	if top != h {
		err := &StackDisciplineError{ID: h.id}
		if top != nil {
			err.TopID = top.id
		}
		return err
	}
	s.handles[len(s.handles)-1] = nil
	s.handles = s.handles[:len(s.handles)-1]
	return nil
}

// top returns the most recently pushed live handle, or nil when empty.
func (s *stack) top() *Handle {
	if len(s.handles) == 0 {
		return nil
	}
	return s.handles[len(s.handles)-1]
}

// depth returns the number of live handles.
func (s *stack) depth() int {
	return len(s.handles)
}
