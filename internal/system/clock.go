package system

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/job"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/world"
)

// ClockSystem records that every clocked entity has been advanced through
// tick. Runs last. Phase 9 (Clock).
type ClockSystem struct {
	st     *world.State
	exec   job.Executor
	filter ecs.Filter
}

func NewClockSystem(st *world.State, exec job.Executor) *ClockSystem {
	return &ClockSystem{st: st, exec: exec, filter: ecs.NewFilter(st.ECS)}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(tick int64) error {
	st := s.st
	return s.exec.Run(st.Clocks.Len(), func(_, lo, hi int) error {
		return ecs.EachRange(st.Clocks, lo, hi, s.filter, func(_ ecs.EntityID, c *component.SimClock) error {
			c.Tick = tick + 1
			return nil
		})
	})
}
