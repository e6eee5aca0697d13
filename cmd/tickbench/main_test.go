package main

import (
	"runtime"
	"testing"
	"time"

	"github.com/l1jgo/tickbench/internal/config"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlanExpandsModes(t *testing.T) {
	sc := config.Default().Simulation
	sc.Workers = 6

	sc.Mode = config.ModeSequential
	assert.Equal(t, []mode{{config.ModeSequential, 1}}, plan(sc))
	sc.Mode = config.ModeParallel
	assert.Equal(t, []mode{{config.ModeParallel, 6}}, plan(sc))
	sc.Mode = config.ModeBoth
	assert.Equal(t, []mode{{config.ModeSequential, 1}, {config.ModeParallel, 6}}, plan(sc))

	sc.Workers = 0
	assert.Equal(t, runtime.GOMAXPROCS(0), plan(sc)[1].workers)
}

func TestSequentialAndParallelRunsAgree(t *testing.T) {
	sc := config.Default().Simulation
	sc.EntityCount = 200
	sc.Ticks = 120
	sc.Workers = 4
	sc.WorldWidth = 64
	sc.WorldHeight = 64
	log := zap.NewNop()

	rules, closeRules, err := buildFormulas(sc, log)
	require.NoError(t, err)
	defer closeRules()

	var outs []runOutcome
	for _, m := range plan(sc) {
		out, err := runMode(m, sc, rules, log)
		require.NoError(t, err)
		outs = append(outs, out)
	}
	require.Len(t, outs, 2)
	assert.NoError(t, compare(outs[0], outs[1]))
	assert.Equal(t, 4, outs[1].result.Workers)

	broken := outs[1]
	broken.result.Digest[0] ^= 0xff
	assert.Error(t, compare(outs[0], broken))
}

func TestToRecord(t *testing.T) {
	rec := toRecord(report.Result{
		Mode:     "sequential",
		Workers:  1,
		Entities: 10,
		Ticks:    20,
		Elapsed:  time.Second,
		Tally:    &report.Tally{Killed: 1, Respawned: 2, Launched: 3, Landed: 4, Fizzled: 5},
		Phases:   map[coresys.Phase]time.Duration{coresys.PhaseAttack: time.Millisecond},
	})
	assert.Equal(t, "sequential", rec.Mode)
	assert.Len(t, rec.Digest, 16)
	assert.Equal(t, int64(4), rec.Landed)
	assert.Equal(t, map[string]time.Duration{"attack": time.Millisecond}, rec.Phases)
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := newLogger(config.LoggingConfig{Level: "warn", Format: format})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zap.InfoLevel))
	}
	log, err := newLogger(config.LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}
