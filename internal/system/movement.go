package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/world"
)

// MovementSystem integrates Position by Velocity for everything not Dead.
// Phase 7 (Movement).
type MovementSystem struct {
	st     *world.State
	exec   job.Executor
	filter ecs.Filter
}

func NewMovementSystem(st *world.State, exec job.Executor) *MovementSystem {
	return &MovementSystem{
		st:     st,
		exec:   exec,
		filter: ecs.NewFilter(st.ECS, st.Positions, st.Velocities).Without(component.TagDead),
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(_ int64) error {
	st := s.st
	return s.exec.Run(st.Positions.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Positions, lo, hi, s.filter, func(id ecs.EntityID, p *component.Position) error {
			v, _ := st.Velocities.Get(id)
			p.X += v.DX
			p.Y += v.DY
			return nil
		})
	})
}

// VelocitySystem steers everything not Dead through the velocity formula.
// Phase 8 (Velocity).
type VelocitySystem struct {
	st     *world.State
	exec   job.Executor
	rules  formula.Formulas
	filter ecs.Filter
}

func NewVelocitySystem(st *world.State, exec job.Executor, rules formula.Formulas) *VelocitySystem {
	return &VelocitySystem{
		st:     st,
		exec:   exec,
		rules:  rules,
		filter: ecs.NewFilter(st.ECS, st.Velocities, st.Positions).Without(component.TagDead),
	}
}

func (s *VelocitySystem) Phase() coresys.Phase { return coresys.PhaseVelocity }

func (s *VelocitySystem) Update(_ int64) error {
	st := s.st
	return s.exec.Run(st.Velocities.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Velocities, lo, hi, s.filter, func(id ecs.EntityID, v *component.Velocity) error {
			p, _ := st.Positions.Get(id)
			*v = s.rules.Velocity(*p, *v)
			return nil
		})
	})
}
