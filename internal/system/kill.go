package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/world"
)

// KillSystem 將 HP <= 0 的單位標記為 Dead 並排定重生時間。
// Phase 2 (Kill).
type KillSystem struct {
	st     *world.State
	exec   job.Executor
	delay  int64
	filter ecs.Filter
}

func NewKillSystem(st *world.State, exec job.Executor, respawnDelay int64) *KillSystem {
	return &KillSystem{
		st:     st,
		exec:   exec,
		delay:  respawnDelay,
		filter: ecs.NewFilter(st.ECS, st.Units, st.Healths).Without(component.TagDead, component.TagSpawning),
	}
}

func (s *KillSystem) Phase() coresys.Phase { return coresys.PhaseKill }

func (s *KillSystem) Update(tick int64) error {
	st := s.st
	return s.exec.Run(st.Units.Len(), func(worker, lo, hi int) error {
		q := st.ECS.Queue(worker)
		return ecs.EachRange(st.Units, lo, hi, s.filter, func(id ecs.EntityID, u *component.Unit) error {
			h, _ := st.Healths.Get(id)
			if h.HP > 0 {
				return nil
			}
			q.AddTag(id, component.TagDead)
			u.RespawnTick = tick + s.delay
			event.Emit(st.Bus, event.UnitKilled{Entity: id, UnitID: u.ID, Tick: tick})
			return nil
		})
	})
}
