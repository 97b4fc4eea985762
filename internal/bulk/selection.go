// Package bulk implements the list-view side of the bulk protocol: a
// selection that survives pagination, the bulk edit form, CSV export and a
// client for the bulk endpoints of a registry.
package bulk

// Record is anything addressable by a stable id.
type Record interface {
	RecordID() string
}

// Selection is an ordered set of records keyed by id. It keeps the last
// snapshot seen for each id, so records selected on an earlier page are
// still available after the view has moved on. The zero value is not usable;
// call NewSelection. A Selection is not safe for concurrent use.
type Selection[T Record] struct {
	order []string
	items map[string]T
}

func NewSelection[T Record]() *Selection[T] {
	return &Selection[T]{items: make(map[string]T)}
}

// Add selects r, or refreshes its snapshot if it is already selected.
// Refreshing keeps the original position.
func (s *Selection[T]) Add(r T) {
	id := r.RecordID()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = r
}

func (s *Selection[T]) Remove(id string) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips r in or out of the selection and reports whether it is now selected.
func (s *Selection[T]) Toggle(r T) bool {
	if s.Contains(r.RecordID()) {
		s.Remove(r.RecordID())
		return false
	}
	s.Add(r)
	return true
}

func (s *Selection[T]) Contains(id string) bool {
	_, ok := s.items[id]
	return ok
}

// SelectAll adds every record of the current view. Records matching the
// filter but not loaded are not selected.
func (s *Selection[T]) SelectAll(visible []T) {
	for _, r := range visible {
		s.Add(r)
	}
}

// AllSelected reports whether every visible record is selected. An empty view
// is never all selected.
func (s *Selection[T]) AllSelected(visible []T) bool {
	if len(visible) == 0 {
		return false
	}
	for _, r := range visible {
		if !s.Contains(r.RecordID()) {
			return false
		}
	}
	return true
}

// ToggleAll is the header checkbox: it deselects the visible records when all
// of them are selected, and selects them otherwise.
func (s *Selection[T]) ToggleAll(visible []T) {
	if s.AllSelected(visible) {
		for _, r := range visible {
			s.Remove(r.RecordID())
		}
		return
	}
	s.SelectAll(visible)
}

func (s *Selection[T]) Clear() {
	s.order = nil
	s.items = make(map[string]T)
}

func (s *Selection[T]) Len() int {
	return len(s.order)
}

// IDs returns the selected ids in selection order.
func (s *Selection[T]) IDs() []string {
	return append([]string(nil), s.order...)
}

// Snapshots returns the selected records in selection order.
func (s *Selection[T]) Snapshots() []T {
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}
