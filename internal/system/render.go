package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/world"
)

// Renderer receives drawable state once per tick. Draw is called from
// parallel workers and must be safe for concurrent use.
type Renderer interface {
	BeginFrame(tick int64)
	Draw(id ecs.EntityID, pos component.Position, sprite component.Sprite)
}

// RenderSystem hands every positioned sprite to the renderer. Read-only.
// Phase 3 (Render).
type RenderSystem struct {
	st       *world.State
	exec     job.Executor
	renderer Renderer
	filter   ecs.Filter
}

func NewRenderSystem(st *world.State, exec job.Executor, r Renderer) *RenderSystem {
	return &RenderSystem{
		st:       st,
		exec:     exec,
		renderer: r,
		filter:   ecs.NewFilter(st.ECS, st.Sprites, st.Positions),
	}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(tick int64) error {
	if s.renderer == nil {
		return nil
	}
	st := s.st
	s.renderer.BeginFrame(tick)
	return s.exec.Run(st.Sprites.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Sprites, lo, hi, s.filter, func(id ecs.EntityID, sp *component.Sprite) error {
			pos, _ := st.Positions.Get(id)
			s.renderer.Draw(id, *pos, *sp)
			return nil
		})
	})
}
