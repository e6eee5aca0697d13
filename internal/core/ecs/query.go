package ecs

// Filter selects entities by required components and tag predicates. It only
// reads, so one Filter may be shared by all workers of a system.
type Filter struct {
	world   *World
	with    []Matcher
	require TagMask
	exclude TagMask
}

// NewFilter matches live entities present in every given store.
func NewFilter(w *World, with ...Matcher) Filter {
	return Filter{world: w, with: with}
}

// With returns a copy that also requires every given tag.
func (f Filter) With(tags ...Tag) Filter {
	for _, t := range tags {
		f.require |= t.Mask()
	}
	return f
}

// Without returns a copy that rejects entities carrying any given tag.
func (f Filter) Without(tags ...Tag) Filter {
	for _, t := range tags {
		f.exclude |= t.Mask()
	}
	return f
}

func (f Filter) Match(id EntityID) bool {
	if !f.world.Alive(id) {
		return false
	}
	tags := f.world.tags[id.Index()]
	if tags&f.require != f.require || tags.Any(f.exclude) {
		return false
	}
	for _, m := range f.with {
		if !m.Has(id) {
			return false
		}
	}
	return true
}

// Each2 iterates entities that have both component A and B, driven by the
// dense order of sa.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for i, id := range sa.dense {
		if b, ok := sb.Get(id); ok {
			fn(id, &sa.values[i], b)
		}
	}
}

// EachRange is Each2 restricted to dense slots [lo, hi) of sa and filtered by
// f. Workers use it to walk their own partition.
func EachRange[A any](sa *Store[A], lo, hi int, f Filter, fn func(EntityID, *A) error) error {
	for i := lo; i < hi; i++ {
		id := sa.dense[i]
		if !f.Match(id) {
			continue
		}
		if err := fn(id, &sa.values[i]); err != nil {
			return err
		}
	}
	return nil
}
