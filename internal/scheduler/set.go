package scheduler

// Set is an insertion-ordered set of step ids. The scheduler uses one for
// completed steps (so their completion order is preserved) and one for
// pending steps. It is not safe for concurrent use.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns an empty set.
func NewSet(ids ...string) *Set {
	s := &Set{index: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id, reporting whether it was new.
func (s *Set) Add(id string) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// IDs returns the ids in insertion order.
func (s *Set) IDs() []string {
	return append([]string(nil), s.order...)
}

// Remove deletes id, reporting whether it was present.
func (s *Set) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Drain empties the set and returns what it held, in insertion order.
func (s *Set) Drain() []string {
	out := s.order
	s.order = nil
	s.index = make(map[string]struct{})
	return out
}
