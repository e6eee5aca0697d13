package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Matcher reports whether an entity carries some component.
type Matcher interface {
	Has(id EntityID) bool
}

// Store is a generic sparse-set component store. Values live in a dense slice
// so iteration order depends only on the order of Set/Remove calls, never on
// map hashing. Pointers returned by Get/Set stay valid until the next
// structural change to this store.
type Store[T any] struct {
	sparse []int32 // entity index -> dense slot, -1 when absent
	dense  []EntityID
	values []T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		dense:  make([]EntityID, 0, 256),
		values: make([]T, 0, 256),
	}
}

// Register creates a store and tracks it for bulk removal on destroy.
func Register[T any](w *World) *Store[T] {
	s := NewStore[T]()
	w.track(s)
	return s
}

func (s *Store[T]) slot(id EntityID) (int32, bool) {
	idx := id.Index()
	if int(idx) >= len(s.sparse) {
		return 0, false
	}
	d := s.sparse[idx]
	if d < 0 || s.dense[d] != id {
		return 0, false
	}
	return d, true
}

// Set stores c for id, replacing any previous value, and returns a pointer to
// the stored copy.
func (s *Store[T]) Set(id EntityID, c T) *T {
	if d, ok := s.slot(id); ok {
		s.values[d] = c
		return &s.values[d]
	}
	idx := int(id.Index())
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, -1)
	}
	// A stale generation may still occupy the slot.
	if d := s.sparse[idx]; d >= 0 {
		s.removeSlot(d)
	}
	s.sparse[idx] = int32(len(s.dense))
	s.dense = append(s.dense, id)
	s.values = append(s.values, c)
	return &s.values[len(s.values)-1]
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	d, ok := s.slot(id)
	if !ok {
		return nil, false
	}
	return &s.values[d], true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.slot(id)
	return ok
}

func (s *Store[T]) Remove(id EntityID) {
	if d, ok := s.slot(id); ok {
		s.removeSlot(d)
	}
}

// removeSlot swaps the last dense entry into d.
func (s *Store[T]) removeSlot(d int32) {
	last := int32(len(s.dense) - 1)
	gone := s.dense[d]
	if d != last {
		moved := s.dense[last]
		s.dense[d] = moved
		s.values[d] = s.values[last]
		s.sparse[moved.Index()] = d
	}
	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[gone.Index()] = -1
}

func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Entities returns the dense entity list. Callers must not modify it, and it
// is only stable until the next structural change.
func (s *Store[T]) Entities() []EntityID {
	return s.dense
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := range s.dense {
		fn(s.dense[i], &s.values[i])
	}
}
