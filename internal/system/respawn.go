package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/mathx"
	"github.com/l1jgo/tickbench/internal/world"
)

// RespawnSystem 處理死亡單位的重生：時鐘到達 RespawnTick 時建立新的
// Spawning 實體並銷毀舊實體。Phase 1 (Respawn).
type RespawnSystem struct {
	st     *world.State
	exec   job.Executor
	filter ecs.Filter
}

func NewRespawnSystem(st *world.State, exec job.Executor) *RespawnSystem {
	return &RespawnSystem{
		st:     st,
		exec:   exec,
		filter: ecs.NewFilter(st.ECS, st.Units, st.Clocks).With(component.TagDead),
	}
}

func (s *RespawnSystem) Phase() coresys.Phase { return coresys.PhaseRespawn }

func (s *RespawnSystem) Update(tick int64) error {
	st := s.st
	return s.exec.Run(st.Units.Len(), func(worker, lo, hi int) error {
		q := st.ECS.Queue(worker)
		return ecs.EachRange(st.Units, lo, hi, s.filter, func(id ecs.EntityID, u *component.Unit) error {
			clock, _ := st.Clocks.Get(id)
			if clock.Tick < u.RespawnTick {
				return nil
			}
			next := Reborn(*u, tick)
			q.Create(
				ecs.With(st.Units, next),
				ecs.With(st.Clocks, *clock),
				ecs.Tagged(st.ECS, component.TagSpawning),
			)
			q.Destroy(id)
			event.Emit(st.Bus, event.UnitRespawned{Old: id, OldUnit: u.ID, NewUnit: next.ID, Tick: tick})
			return nil
		})
	})
}

// Reborn derives the unit that replaces u at tick. The id formula can wrap
// for large ticks; that bound is accepted.
func Reborn(u component.Unit, tick int64) component.Unit {
	return component.Unit{
		ID:        u.ID | uint32(tick<<16),
		Seed:      mathx.DeriveSeed(u.Seed, u.Counter),
		Counter:   u.Counter,
		SpawnTick: tick,
	}
}
