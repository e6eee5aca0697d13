package system

import (
	"errors"
	"fmt"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/world"
)

// ErrUnknownRole means the role formula returned something other than the
// three spawnable roles. It is a programming defect and aborts the tick.
var ErrUnknownRole = errors.New("unknown spawn role")

// SpawnSystem resolves Spawning units: it asks the formulas for a role and a
// loadout, attaches the components and swaps Spawning for the role tag.
// Phase 0 (Spawn).
type SpawnSystem struct {
	st     *world.State
	exec   job.Executor
	rules  formula.Formulas
	filter ecs.Filter
}

func NewSpawnSystem(st *world.State, exec job.Executor, rules formula.Formulas) *SpawnSystem {
	return &SpawnSystem{
		st:     st,
		exec:   exec,
		rules:  rules,
		filter: ecs.NewFilter(st.ECS, st.Units).With(component.TagSpawning),
	}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(_ int64) error {
	st := s.st
	return s.exec.Run(st.Units.Len(), func(worker, lo, hi int) error {
		q := st.ECS.Queue(worker)
		return ecs.EachRange(st.Units, lo, hi, s.filter, func(id ecs.EntityID, u *component.Unit) error {
			role := s.rules.ResolveRole(*u)
			tag, ok := role.Tag()
			if !ok {
				return fmt.Errorf("%w: unit %d resolved to %d", ErrUnknownRole, u.ID, role)
			}
			kit := s.rules.Loadout(role, *u)
			ecs.AddComponent(q, st.Healths, id, kit.Health)
			ecs.AddComponent(q, st.Damages, id, kit.Damage)
			ecs.AddComponent(q, st.Sprites, id, kit.Sprite)
			ecs.AddComponent(q, st.Positions, id, kit.Position)
			ecs.AddComponent(q, st.Velocities, id, kit.Velocity)
			q.AddTag(id, tag)
			q.RemoveTag(id, component.TagSpawning)
			return nil
		})
	})
}
