package world

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
)

// State holds the simulation's entity store, one typed store per component
// and the global tick. Systems share it; the command buffer inside ECS is the
// only way they change its structure.
type State struct {
	ECS *ecs.World
	Bus *event.Bus

	Positions  *ecs.Store[component.Position]
	Velocities *ecs.Store[component.Velocity]
	Sprites    *ecs.Store[component.Sprite]
	Units      *ecs.Store[component.Unit]
	Clocks     *ecs.Store[component.SimClock]
	Healths    *ecs.Store[component.Health]
	Damages    *ecs.Store[component.Damage]
	Attacks    *ecs.Store[component.AttackEvent]

	// Tick is the tick currently being (or next to be) processed.
	Tick int64
}

// NewState creates an empty state whose command buffer has one queue per
// worker. A nil bus disables event emission.
func NewState(workers int, bus *event.Bus) *State {
	w := ecs.NewWorld(workers)
	return &State{
		ECS:        w,
		Bus:        bus,
		Positions:  ecs.Register[component.Position](w),
		Velocities: ecs.Register[component.Velocity](w),
		Sprites:    ecs.Register[component.Sprite](w),
		Units:      ecs.Register[component.Unit](w),
		Clocks:     ecs.Register[component.SimClock](w),
		Healths:    ecs.Register[component.Health](w),
		Damages:    ecs.Register[component.Damage](w),
		Attacks:    ecs.Register[component.AttackEvent](w),
	}
}

// Populate creates count spawning units with id and seed equal to their
// index. Call before the first tick.
func (s *State) Populate(count int) {
	for i := 0; i < count; i++ {
		s.AddUnit(component.Unit{ID: uint32(i), Seed: uint32(i), SpawnTick: s.Tick}, component.SimClock{Tick: s.Tick})
	}
}

// AddUnit creates one spawning unit immediately.
func (s *State) AddUnit(u component.Unit, clock component.SimClock) ecs.EntityID {
	id := s.ECS.CreateEntity()
	s.Units.Set(id, u)
	s.Clocks.Set(id, clock)
	s.ECS.AddTag(id, component.TagSpawning)
	return id
}

// Role reads an entity's role from its tags.
func (s *State) Role(id ecs.EntityID) component.Role {
	return component.RoleOf(s.ECS.Tags(id))
}

// FindUnit returns the live entity carrying unit id, if any.
func (s *State) FindUnit(unitID uint32) (ecs.EntityID, bool) {
	for _, id := range s.Units.Entities() {
		if u, _ := s.Units.Get(id); u.ID == unitID {
			return id, true
		}
	}
	return 0, false
}
