package sets

// Ordered is a set which remembers the order of insertion.
//
// Values are listed in the order they were added first.
// Adding a value already in the set does not change the order.
type Ordered[T comparable] struct {
	values []T
	index  map[T]struct{}
}

// NewOrdered creates a new ordered set with the given initial values.
func NewOrdered[T comparable](initial ...T) *Ordered[T] {
	s := &Ordered[T]{
		values: []T{},
		index:  map[T]struct{}{},
	}
	for _, v := range initial {
		s.Add(v)
	}
	return s
}

// Add puts v into the set.
//
// return: true if v is new to the set.
func (s *Ordered[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Has returns true if v is in the set.
func (s *Ordered[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of values in the set.
func (s *Ordered[T]) Len() int {
	return len(s.values)
}

// Values returns a copy of the values in insertion order.
func (s *Ordered[T]) Values() []T {
	ret := make([]T, len(s.values))
	copy(ret, s.values)
	return ret
}

// Iter iterates over values in insertion order.
func (s *Ordered[T]) Iter() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, v := range s.values {
			if !yield(v) {
				break
			}
		}
	}
}
