package system

import (
	"fmt"
	"sort"
	"time"

	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/core/event"
	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick with a flush barrier
// after every system.
type Runner struct {
	world   *ecs.World
	bus     *event.Bus
	log     *zap.Logger
	systems []System
	sorted  bool
	timings []time.Duration
}

func NewRunner(world *ecs.World, bus *event.Bus, log *zap.Logger) *Runner {
	return &Runner{
		world:   world,
		bus:     bus,
		log:     log,
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once. Events emitted last tick are dispatched
// first. If a system fails, whatever it queued is discarded and the tick is
// abandoned; there is no partial-tick recovery.
func (r *Runner) Tick(tick int64) error {
	r.ensureSorted()
	if r.bus != nil {
		r.bus.SwapBuffers()
		r.bus.DispatchAll()
	}
	for i, s := range r.systems {
		start := time.Now()
		if err := s.Update(tick); err != nil {
			r.world.Commands().Discard()
			return fmt.Errorf("tick %d: %s: %w", tick, s.Phase(), err)
		}
		applied := r.world.Flush()
		r.timings[i] += time.Since(start)
		if ce := r.log.Check(zap.DebugLevel, "system done"); ce != nil {
			ce.Write(
				zap.Int64("tick", tick),
				zap.Stringer("phase", s.Phase()),
				zap.Int("applied", applied),
				zap.Int("live", r.world.Len()),
			)
		}
	}
	return nil
}

// ==================== 統計 ====================

// Timings reports cumulative wall time per phase, including the flush.
func (r *Runner) Timings() map[Phase]time.Duration {
	r.ensureSorted()
	out := make(map[Phase]time.Duration, len(r.systems))
	for i, s := range r.systems {
		out[s.Phase()] += r.timings[i]
	}
	return out
}

// Systems returns the registered systems in run order. The slice is a copy.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	return append([]System(nil), r.systems...)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.timings = make([]time.Duration, len(r.systems))
		r.sorted = true
	}
}
