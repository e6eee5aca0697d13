package system

import (
	"sync/atomic"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/job"
	"github.com/l1jgo/tickbench/internal/core/scratch"
	"github.com/l1jgo/tickbench/internal/core/sortx"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/mathx"
	"github.com/l1jgo/tickbench/internal/world"
)

// Target is one candidate recorded during collection.
type Target struct {
	Entity ecs.EntityID
	Pos    component.Position
}

// AttackSystem launches attacks for every unit whose cooldown is due.
// Phase 6 (Attack).
//
// Target choice must not depend on how workers interleave, so it runs in
// three passes over a scratch frame:
//  1. collect live units into keys/payload at atomically claimed slots;
//  2. radix sort the unit-id keys into an indirection permutation;
//  3. each attacker draws an index from its own stream and reads the target
//     at indirection[index].
type AttackSystem struct {
	st        *world.State
	exec      job.Executor
	rules     formula.Formulas
	arena     *scratch.Arena[Target]
	live      ecs.Filter
	attackers ecs.Filter
}

func NewAttackSystem(st *world.State, exec job.Executor, rules formula.Formulas, arena *scratch.Arena[Target]) *AttackSystem {
	return &AttackSystem{
		st:        st,
		exec:      exec,
		rules:     rules,
		arena:     arena,
		live:      ecs.NewFilter(st.ECS, st.Units, st.Positions).Without(component.TagSpawning, component.TagDead),
		attackers: ecs.NewFilter(st.ECS, st.Units, st.Damages, st.Positions).Without(component.TagSpawning, component.TagDead),
	}
}

func (s *AttackSystem) Phase() coresys.Phase { return coresys.PhaseAttack }

func (s *AttackSystem) Update(tick int64) error {
	return s.arena.With(s.st.ECS.Len(), func(f *scratch.Frame[Target]) error {
		n, err := s.collect(f)
		if err != nil || n == 0 {
			return err
		}
		keys, index := f.Keys[:n], f.Indirection[:n]
		// 第二步：依 unit id 排序，只移動 key 與索引
		sortx.SortIndirect(keys, index, f.TmpKeys[:n], f.TmpIndex[:n])
		return s.launch(tick, f.Payload[:n], index)
	})
}

// ==================== 第一步：收集目標 ====================

// collect fills the frame in whatever order the workers reach it and returns
// the number of slots used.
func (s *AttackSystem) collect(f *scratch.Frame[Target]) (int, error) {
	st := s.st
	shared := s.exec.Workers() > 1
	var cursor atomic.Int32
	var seq int32
	err := s.exec.Run(st.Units.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Units, lo, hi, s.live, func(id ecs.EntityID, u *component.Unit) error {
			slot := seq
			if shared {
				slot = cursor.Add(1) - 1
			} else {
				seq++
			}
			pos, _ := st.Positions.Get(id)
			f.Keys[slot] = u.ID
			f.Payload[slot] = Target{Entity: id, Pos: *pos}
			return nil
		})
	})
	if shared {
		return int(cursor.Load()), err
	}
	return int(seq), err
}

// ==================== 第三步：抽選並發射 ====================

func (s *AttackSystem) launch(tick int64, targets []Target, index []uint32) error {
	st := s.st
	return s.exec.Run(st.Units.Len(), func(worker, lo, hi int) error {
		q := st.ECS.Queue(worker)
		return ecs.EachRange(st.Units, lo, hi, s.attackers, func(id ecs.EntityID, u *component.Unit) error {
			d, _ := st.Damages.Get(id)
			if !CooldownDue(*d, *u, tick) {
				return nil
			}
			pos, _ := st.Positions.Get(id)
			tgt := PickTarget(u, targets, index)
			q.Create(ecs.With(st.Attacks, component.AttackEvent{
				Target:         tgt.Entity,
				Damage:         d.Attack,
				TicksRemaining: s.rules.FlightTime(*pos, tgt.Pos),
			}))
			event.Emit(st.Bus, event.AttackLaunched{Attacker: id, Target: tgt.Entity, Tick: tick})
			return nil
		})
	})
}

// ==================== 公式輔助 ====================

// CooldownDue reports whether a unit attacks on tick.
func CooldownDue(d component.Damage, u component.Unit, tick int64) bool {
	return d.Cooldown > 0 && (tick-u.SpawnTick)%int64(d.Cooldown) == 0
}

// PickTarget draws from u's stream, stores the advanced counter back into u
// and resolves the draw through the canonical ranking. targets is indexed by
// collection slot; index maps rank to slot.
func PickTarget(u *component.Unit, targets []Target, index []uint32) Target {
	rank, next := mathx.IntN(u.Seed, u.Counter, uint32(len(index)))
	u.Counter = next
	return targets[index[rank]]
}
