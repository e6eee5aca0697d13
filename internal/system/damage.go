package system

import (
	"sync/atomic"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/world"
)

// DamageSystem counts down in-flight attacks. When one lands it is destroyed
// and, if its target is still alive and not Dead, the target loses
// attack minus its defence (unclamped). Phase 5 (Damage).
//
// Several attacks may land on one target in the same tick from different
// workers, so with more than one worker the health update is atomic.
type DamageSystem struct {
	st     *world.State
	exec   job.Executor
	filter ecs.Filter
}

func NewDamageSystem(st *world.State, exec job.Executor) *DamageSystem {
	return &DamageSystem{
		st:     st,
		exec:   exec,
		filter: ecs.NewFilter(st.ECS, st.Attacks),
	}
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseDamage }

func (s *DamageSystem) Update(tick int64) error {
	st := s.st
	shared := s.exec.Workers() > 1
	return s.exec.Run(st.Attacks.Len(), func(worker, lo, hi int) error {
		q := st.ECS.Queue(worker)
		return ecs.EachRange(st.Attacks, lo, hi, s.filter, func(id ecs.EntityID, ev *component.AttackEvent) error {
			ev.TicksRemaining--
			if ev.TicksRemaining > 0 {
				return nil
			}
			q.Destroy(id)

			// 目標已死亡或已被移除：攻擊落空，不造成傷害
			h, ok := st.Healths.Get(ev.Target)
			if !ok || st.ECS.HasTag(ev.Target, component.TagDead) {
				event.Emit(st.Bus, event.AttackFizzled{Target: ev.Target, Tick: tick})
				return nil
			}
			var defence int32
			if d, ok := st.Damages.Get(ev.Target); ok {
				defence = d.Defence
			}
			total := ev.Damage - defence
			if shared {
				atomic.AddInt32(&h.HP, -total)
			} else {
				h.HP -= total
			}
			event.Emit(st.Bus, event.AttackLanded{Target: ev.Target, Total: total, Tick: tick})
			return nil
		})
	})
}
