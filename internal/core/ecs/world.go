package ecs

// Tag is a boolean marker bit carried by an entity.
type Tag uint8

// TagMask is a set of tags.
type TagMask uint8

func (t Tag) Mask() TagMask { return TagMask(1) << t }

func (m TagMask) Has(t Tag) bool         { return m&t.Mask() != 0 }
func (m TagMask) Any(other TagMask) bool { return m&other != 0 }

// World is the top-level ECS container. It owns the entity pool, the tracked
// component stores, per-entity tag masks and the command buffer whose queues
// are replayed by Flush between systems.
type World struct {
	pool     *EntityPool
	stores   []Removable
	tags     []TagMask // indexed by EntityID.Index()
	commands *Commands
}

// NewWorld creates a world whose command buffer has one queue per worker.
func NewWorld(workers int) *World {
	w := &World{
		pool:   NewEntityPool(),
		stores: make([]Removable, 0, 16),
		tags:   make([]TagMask, 1, 1024),
	}
	w.commands = newCommands(w, workers)
	return w
}

func (w *World) Pool() *EntityPool       { return w.pool }
func (w *World) Commands() *Commands     { return w.commands }
func (w *World) Queue(worker int) *Queue { return w.commands.Queue(worker) }

func (w *World) track(s Removable) {
	w.stores = append(w.stores, s)
}

// CreateEntity allocates an entity immediately. Only call it outside a
// parallel phase; systems go through Queue.Create.
func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	idx := int(id.Index())
	for len(w.tags) <= idx {
		w.tags = append(w.tags, 0)
	}
	w.tags[idx] = 0
	return id
}

// DestroyEntity clears id from every tracked store and frees its index.
func (w *World) DestroyEntity(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.tags[id.Index()] = 0
	w.pool.Destroy(id)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len reports the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

func (w *World) Tags(id EntityID) TagMask {
	if !w.pool.Alive(id) {
		return 0
	}
	return w.tags[id.Index()]
}

func (w *World) HasTag(id EntityID, t Tag) bool {
	return w.Tags(id).Has(t)
}

func (w *World) AddTag(id EntityID, t Tag) {
	if w.pool.Alive(id) {
		w.tags[id.Index()] |= t.Mask()
	}
}

func (w *World) RemoveTag(id EntityID, t Tag) {
	if w.pool.Alive(id) {
		w.tags[id.Index()] &^= t.Mask()
	}
}

// Flush applies every queued structural mutation. Single-threaded.
func (w *World) Flush() int {
	return w.commands.flush()
}
