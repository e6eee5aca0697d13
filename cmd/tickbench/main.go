package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/l1jgo/tickbench/internal/config"
	"github.com/l1jgo/tickbench/internal/core/event"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/data"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/persist"
	"github.com/l1jgo/tickbench/internal/report"
	"github.com/l1jgo/tickbench/internal/scripting"
	"github.com/l1jgo/tickbench/internal/sim"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rules, closeRules, err := buildFormulas(cfg.Simulation, log)
	if err != nil {
		return err
	}
	defer closeRules()

	sc := cfg.Simulation
	var results []runOutcome
	for _, m := range plan(sc) {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := runMode(m, sc, rules, log)
		if err != nil {
			return fmt.Errorf("%s run: %w", m.name, err)
		}
		report.Print(os.Stdout, out.result)
		results = append(results, out)
	}

	if len(results) == 2 {
		if err := compare(results[0], results[1]); err != nil {
			return err
		}
		fmt.Printf("digests match: %s\n", results[0].result.Digest)
	}

	if cfg.Database.DSN != "" {
		if err := record(ctx, cfg.Database, results, log); err != nil {
			return err
		}
	}
	return nil
}

type mode struct {
	name    string
	workers int
}

// plan lists the runs a configured mode expands to.
func plan(sc config.SimulationConfig) []mode {
	parallel := sc.Workers
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	switch sc.Mode {
	case config.ModeSequential:
		return []mode{{config.ModeSequential, 1}}
	case config.ModeParallel:
		return []mode{{config.ModeParallel, parallel}}
	default:
		return []mode{{config.ModeSequential, 1}, {config.ModeParallel, parallel}}
	}
}

type runOutcome struct {
	result   report.Result
	snapshot report.Snapshot
}

func runMode(m mode, sc config.SimulationConfig, rules formula.Formulas, log *zap.Logger) (runOutcome, error) {
	bus := event.NewBus()
	tally := report.NewTally(bus)
	census := &report.Census{}

	eng, err := sim.New(sim.Options{
		Workers:      m.workers,
		RespawnDelay: sc.RespawnDelay,
		ScratchLimit: sc.ScratchLimit,
		Formulas:     rules,
		Renderer:     census,
		Bus:          bus,
		Log:          log.With(zap.String("mode", m.name)),
	})
	if err != nil {
		return runOutcome{}, err
	}
	eng.Populate(sc.EntityCount)

	elapsed, err := eng.Run(sc.Ticks)
	if err != nil {
		return runOutcome{}, err
	}
	// Events emitted by the final tick are still buffered.
	bus.Drain()

	snap := report.Capture(eng.State())
	return runOutcome{
		result: report.Result{
			Mode:     m.name,
			Workers:  eng.Workers(),
			Entities: sc.EntityCount,
			Ticks:    sc.Ticks,
			Elapsed:  elapsed,
			Digest:   snap.Digest(),
			Tally:    tally,
			Frame:    census.Frame(),
			Phases:   eng.Timings(),
		},
		snapshot: snap,
	}, nil
}

func compare(a, b runOutcome) error {
	if a.result.Digest == b.result.Digest {
		return nil
	}
	for _, line := range report.Diff(a.snapshot, b.snapshot, 10) {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
	return fmt.Errorf("determinism violated: %s digest %s, %s digest %s",
		a.result.Mode, a.result.Digest, b.result.Mode, b.result.Digest)
}

// buildFormulas loads the role table and, when a scripts directory is set,
// layers the Lua overrides on top of it.
func buildFormulas(sc config.SimulationConfig, log *zap.Logger) (formula.Formulas, func(), error) {
	roles, err := data.LoadRoleTable(sc.RolesFile)
	if err != nil {
		return nil, nil, err
	}
	if sc.WorldWidth > 0 {
		roles.World.Width = sc.WorldWidth
	}
	if sc.WorldHeight > 0 {
		roles.World.Height = sc.WorldHeight
	}
	log.Info("role table loaded", zap.Int("roles", roles.Count()),
		zap.Float64("width", roles.World.Width), zap.Float64("height", roles.World.Height))

	base := formula.NewTable(roles)
	if sc.ScriptsDir == "" {
		return base, func() {}, nil
	}

	vms := sc.Workers
	if vms <= 0 {
		vms = runtime.GOMAXPROCS(0)
	}
	eng, err := scripting.NewEngine(sc.ScriptsDir, vms, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("lua formulas loaded", zap.String("dir", sc.ScriptsDir), zap.Int("vms", vms))
	return scripting.NewFormulas(base, eng, log), eng.Close, nil
}

func record(ctx context.Context, cfg config.DatabaseConfig, results []runOutcome, log *zap.Logger) error {
	db, err := persist.NewDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	repo := persist.NewRunRepo(db)
	for _, out := range results {
		id, err := repo.Save(ctx, toRecord(out.result))
		if err != nil {
			return err
		}
		log.Info("run recorded", zap.Int64("id", id), zap.String("mode", out.result.Mode))
	}

	r := results[0].result
	agree, disagree, err := repo.Matching(ctx, r.Entities, r.Ticks, r.Digest.String())
	if err != nil {
		return err
	}
	if disagree > 0 {
		log.Warn("stored runs disagree with this digest",
			zap.Int("agree", agree), zap.Int("disagree", disagree))
	}
	return nil
}

func toRecord(r report.Result) persist.RunRecord {
	rec := persist.RunRecord{
		Mode:     r.Mode,
		Workers:  r.Workers,
		Entities: r.Entities,
		Ticks:    r.Ticks,
		Elapsed:  r.Elapsed,
		Digest:   r.Digest.String(),
		Phases:   phaseNames(r.Phases),
	}
	if t := r.Tally; t != nil {
		rec.Killed, rec.Respawned = t.Killed, t.Respawned
		rec.Launched, rec.Landed, rec.Fizzled = t.Launched, t.Landed, t.Fizzled
	}
	return rec
}

func phaseNames[D any](in map[coresys.Phase]D) map[string]D {
	out := make(map[string]D, len(in))
	for ph, d := range in {
		out[ph.String()] = d
	}
	return out
}

func startProfile(cfg config.ProfileConfig) func() {
	var p interface{ Stop() }
	switch cfg.Mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	default:
		return nil
	}
	return p.Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
