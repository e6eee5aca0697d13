// Package sim assembles the fixed system pipeline around a world state and
// exposes the per-tick entry point.
package sim

import (
	"fmt"
	"time"

	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/job"
	"github.com/l1jgo/tickbench/internal/core/scratch"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/system"
	"github.com/l1jgo/tickbench/internal/world"
	"go.uber.org/zap"
)

// DefaultRespawnDelay is the number of ticks a unit stays Dead.
const DefaultRespawnDelay = 50

// Options configures an Engine.
type Options struct {
	// Workers is the fan-out per system: 1 runs sequentially, <= 0 uses
	// GOMAXPROCS.
	Workers      int
	RespawnDelay int64
	// ScratchLimit caps the target-selection frame; <= 0 is unbounded.
	ScratchLimit int
	Formulas     formula.Formulas
	Renderer     system.Renderer
	Bus          *event.Bus
	Log          *zap.Logger
}

// Engine owns one simulation: its state, executor and runner.
type Engine struct {
	state  *world.State
	exec   job.Executor
	runner *coresys.Runner
	log    *zap.Logger
}

func New(opts Options) (*Engine, error) {
	if opts.Formulas == nil {
		return nil, fmt.Errorf("sim: formulas are required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.RespawnDelay <= 0 {
		opts.RespawnDelay = DefaultRespawnDelay
	}
	exec := job.New(opts.Workers)
	st := world.NewState(exec.Workers(), opts.Bus)
	arena := scratch.NewArena[system.Target](opts.ScratchLimit)

	runner := coresys.NewRunner(st.ECS, opts.Bus, opts.Log)
	runner.Register(system.NewSpawnSystem(st, exec, opts.Formulas))
	runner.Register(system.NewRespawnSystem(st, exec))
	runner.Register(system.NewKillSystem(st, exec, opts.RespawnDelay))
	runner.Register(system.NewRenderSystem(st, exec, opts.Renderer))
	runner.Register(system.NewSpriteSystem(st, exec, opts.Formulas))
	runner.Register(system.NewDamageSystem(st, exec))
	runner.Register(system.NewAttackSystem(st, exec, opts.Formulas, arena))
	runner.Register(system.NewMovementSystem(st, exec))
	runner.Register(system.NewVelocitySystem(st, exec, opts.Formulas))
	runner.Register(system.NewClockSystem(st, exec))

	e := &Engine{
		state:  st,
		exec:   exec,
		runner: runner,
		log:    opts.Log.With(zap.Int("workers", exec.Workers())),
	}
	if ce := e.log.Check(zap.DebugLevel, "pipeline assembled"); ce != nil {
		phases := e.Phases()
		names := make([]string, len(phases))
		for i, ph := range phases {
			names[i] = ph.String()
		}
		ce.Write(zap.Strings("phases", names))
	}
	return e, nil
}

// Phases lists the pipeline in run order.
func (e *Engine) Phases() []coresys.Phase {
	systems := e.runner.Systems()
	out := make([]coresys.Phase, len(systems))
	for i, s := range systems {
		out[i] = s.Phase()
	}
	return out
}

// Populate creates count spawning units with id and seed equal to their index.
func (e *Engine) Populate(count int) {
	e.state.Populate(count)
}

// Step advances the simulation by one tick, mutating the state in place. It
// only fails on a defect; the tick counter does not advance in that case.
func (e *Engine) Step() error {
	if err := e.runner.Tick(e.state.Tick); err != nil {
		return err
	}
	e.state.Tick++
	return nil
}

// Run steps ticks times and reports the wall time spent.
func (e *Engine) Run(ticks int) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < ticks; i++ {
		if err := e.Step(); err != nil {
			return time.Since(start), err
		}
	}
	elapsed := time.Since(start)
	e.log.Info("run complete",
		zap.Int("ticks", ticks),
		zap.Int("live", e.state.ECS.Len()),
		zap.Duration("elapsed", elapsed),
	)
	return elapsed, nil
}

func (e *Engine) State() *world.State { return e.state }

func (e *Engine) Workers() int { return e.exec.Workers() }

// Timings reports cumulative wall time per pipeline phase.
func (e *Engine) Timings() map[coresys.Phase]time.Duration {
	return e.runner.Timings()
}
