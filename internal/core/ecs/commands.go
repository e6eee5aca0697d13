package ecs

// ==================== 指令記錄 ====================

type opKind uint8

const (
	opCreate opKind = iota
	opDestroy
	opAddComponent
	opRemoveComponent
	opAddTag
	opRemoveTag
)

// Init initialises a freshly created entity during flush.
type Init func(id EntityID)

type op struct {
	kind   opKind
	entity EntityID
	tag    Tag
	apply  func(id EntityID)
	inits  []Init
}

// Queue is an append-only log of structural mutations written by a single
// worker. It is not safe for concurrent use; give each worker its own.
type Queue struct {
	ops []op
}

// Create queues a new entity. The inits run in order against the new id
// when the queue is flushed.
func (q *Queue) Create(inits ...Init) {
	q.ops = append(q.ops, op{kind: opCreate, inits: inits})
}

// Destroy queues removal of id and all its components.
func (q *Queue) Destroy(id EntityID) {
	q.ops = append(q.ops, op{kind: opDestroy, entity: id})
}

func (q *Queue) AddTag(id EntityID, t Tag) {
	q.ops = append(q.ops, op{kind: opAddTag, entity: id, tag: t})
}

func (q *Queue) RemoveTag(id EntityID, t Tag) {
	q.ops = append(q.ops, op{kind: opRemoveTag, entity: id, tag: t})
}

func (q *Queue) Len() int { return len(q.ops) }

// ==================== 元件/標籤指令 ====================

// With returns an Init that stores v in s for the created entity.
func With[T any](s *Store[T], v T) Init {
	return func(id EntityID) { s.Set(id, v) }
}

// Tagged returns an Init that adds t to the created entity.
func Tagged(w *World, t Tag) Init {
	return func(id EntityID) { w.AddTag(id, t) }
}

// AddComponent queues s.Set(id, v).
func AddComponent[T any](q *Queue, s *Store[T], id EntityID, v T) {
	q.ops = append(q.ops, op{
		kind:   opAddComponent,
		entity: id,
		apply:  func(id EntityID) { s.Set(id, v) },
	})
}

// RemoveComponent queues s.Remove(id).
func RemoveComponent[T any](q *Queue, s *Store[T], id EntityID) {
	q.ops = append(q.ops, op{
		kind:   opRemoveComponent,
		entity: id,
		apply:  s.Remove,
	})
}

// ==================== 合併與重播 ====================

// Commands is the world's command buffer: one Queue per worker, merged in
// worker order at flush. Contiguous partitions plus ordered merging make the
// replay order independent of how many workers produced it.
type Commands struct {
	world  *World
	queues []*Queue
}

func newCommands(w *World, workers int) *Commands {
	if workers < 1 {
		workers = 1
	}
	c := &Commands{world: w, queues: make([]*Queue, workers)}
	for i := range c.queues {
		c.queues[i] = &Queue{ops: make([]op, 0, 64)}
	}
	return c
}

func (c *Commands) Workers() int { return len(c.queues) }

func (c *Commands) Queue(worker int) *Queue { return c.queues[worker] }

// Pending reports the number of queued operations across all queues.
func (c *Commands) Pending() int {
	n := 0
	for _, q := range c.queues {
		n += len(q.ops)
	}
	return n
}

// Discard drops every queued operation without applying it.
func (c *Commands) Discard() {
	for _, q := range c.queues {
		clear(q.ops)
		q.ops = q.ops[:0]
	}
}

// flush replays the queues and returns the number of applied operations.
// Operations on an entity that is no longer alive are skipped.
func (c *Commands) flush() int {
	w := c.world
	applied := 0
	for _, q := range c.queues {
		for i := range q.ops {
			o := &q.ops[i]
			switch o.kind {
			case opCreate:
				id := w.CreateEntity()
				for _, fn := range o.inits {
					fn(id)
				}
			case opDestroy:
				if !w.Alive(o.entity) {
					continue
				}
				w.DestroyEntity(o.entity)
			case opAddComponent, opRemoveComponent:
				if !w.Alive(o.entity) {
					continue
				}
				o.apply(o.entity)
			case opAddTag:
				if !w.Alive(o.entity) {
					continue
				}
				w.AddTag(o.entity, o.tag)
			case opRemoveTag:
				if !w.Alive(o.entity) {
					continue
				}
				w.RemoveTag(o.entity, o.tag)
			}
			applied++
		}
		clear(q.ops)
		q.ops = q.ops[:0]
	}
	return applied
}
