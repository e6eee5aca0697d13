package report

import (
	"sync/atomic"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
)

// Tally counts lifecycle events. Handlers run from the bus dispatch on the
// tick goroutine, so plain counters suffice.
type Tally struct {
	Killed      int64
	Respawned   int64
	Launched    int64
	Landed      int64
	Fizzled     int64
	DamageDealt int64
}

// NewTally creates a tally subscribed to bus.
func NewTally(bus *event.Bus) *Tally {
	t := &Tally{}
	event.Subscribe(bus, func(event.UnitKilled) { t.Killed++ })
	event.Subscribe(bus, func(event.UnitRespawned) { t.Respawned++ })
	event.Subscribe(bus, func(event.AttackLaunched) { t.Launched++ })
	event.Subscribe(bus, func(e event.AttackLanded) {
		t.Landed++
		t.DamageDealt += int64(e.Total)
	})
	event.Subscribe(bus, func(event.AttackFizzled) { t.Fizzled++ })
	return t
}

// Census is a Renderer that counts what was drawn in the latest frame.
type Census struct {
	tick    atomic.Int64
	heroes  atomic.Int64
	monster atomic.Int64
	npcs    atomic.Int64
	dead    atomic.Int64
}

func (c *Census) BeginFrame(tick int64) {
	c.tick.Store(tick)
	c.heroes.Store(0)
	c.monster.Store(0)
	c.npcs.Store(0)
	c.dead.Store(0)
}

func (c *Census) Draw(_ ecs.EntityID, _ component.Position, sp component.Sprite) {
	switch g := sp.Glyph; {
	case g&component.GlyphDead != 0:
		c.dead.Add(1)
	case g&component.GlyphHero != 0:
		c.heroes.Add(1)
	case g&component.GlyphMonster != 0:
		c.monster.Add(1)
	case g&component.GlyphNPC != 0:
		c.npcs.Add(1)
	}
}

// Frame is a census reading.
type Frame struct {
	Tick     int64
	Heroes   int64
	Monsters int64
	NPCs     int64
	Dead     int64
}

func (c *Census) Frame() Frame {
	return Frame{
		Tick:     c.tick.Load(),
		Heroes:   c.heroes.Load(),
		Monsters: c.monster.Load(),
		NPCs:     c.npcs.Load(),
		Dead:     c.dead.Load(),
	}
}
