package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/world"
)

// SpriteSystem derives each unit's sprite from role, health, liveness and
// motion. Phase 4 (Sprite).
type SpriteSystem struct {
	st     *world.State
	exec   job.Executor
	rules  formula.Formulas
	filter ecs.Filter
}

func NewSpriteSystem(st *world.State, exec job.Executor, rules formula.Formulas) *SpriteSystem {
	return &SpriteSystem{
		st:     st,
		exec:   exec,
		rules:  rules,
		filter: ecs.NewFilter(st.ECS, st.Sprites, st.Healths),
	}
}

func (s *SpriteSystem) Phase() coresys.Phase { return coresys.PhaseSprite }

func (s *SpriteSystem) Update(_ int64) error {
	st := s.st
	return s.exec.Run(st.Sprites.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Sprites, lo, hi, s.filter, func(id ecs.EntityID, sp *component.Sprite) error {
			h, _ := st.Healths.Get(id)
			var vel component.Velocity
			if v, ok := st.Velocities.Get(id); ok {
				vel = *v
			}
			tags := st.ECS.Tags(id)
			*sp = s.rules.Sprite(component.RoleOf(tags), *h, tags.Has(component.TagDead), vel)
			return nil
		})
	})
}
