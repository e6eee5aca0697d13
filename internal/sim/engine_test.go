package sim

import (
	"errors"
	"testing"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/event"
	"github.com/l1jgo/tickbench/internal/core/scratch"
	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"github.com/l1jgo/tickbench/internal/data"
	"github.com/l1jgo/tickbench/internal/formula"
	"github.com/l1jgo/tickbench/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tableFormulas(t *testing.T) formula.Formulas {
	t.Helper()
	roles, err := data.DefaultRoleTable()
	require.NoError(t, err)
	return formula.NewTable(roles)
}

func runEngine(t *testing.T, workers, entities, ticks int) (report.Snapshot, *report.Tally) {
	t.Helper()
	bus := event.NewBus()
	tally := report.NewTally(bus)
	eng, err := New(Options{
		Workers:      workers,
		RespawnDelay: 20,
		Formulas:     tableFormulas(t),
		Renderer:     &report.Census{},
		Bus:          bus,
		Log:          zap.NewNop(),
	})
	require.NoError(t, err)
	eng.Populate(entities)
	_, err = eng.Run(ticks)
	require.NoError(t, err)
	bus.Drain()
	return report.Capture(eng.State()), tally
}

func TestDeterministicAcrossWorkerCounts(t *testing.T) {
	want, wantTally := runEngine(t, 1, 500, 300)
	require.Positive(t, wantTally.Killed, "the run should exercise deaths")
	require.Positive(t, wantTally.Respawned)
	require.Equal(t, int64(300), want.Tick)

	for _, workers := range []int{2, 3, 8} {
		got, tally := runEngine(t, workers, 500, 300)
		if !assert.Equal(t, want.Digest(), got.Digest(), "workers=%d", workers) {
			t.Log(report.Diff(want, got, 5))
		}
		assert.Equal(t, want, got)
		assert.Equal(t, *wantTally, *tally)
	}
}

func TestDeadUnitsNeverOverstay(t *testing.T) {
	eng, err := New(Options{Workers: 4, RespawnDelay: 10, Formulas: tableFormulas(t)})
	require.NoError(t, err)
	eng.Populate(300)
	st := eng.State()

	sawDead := false
	for i := 0; i < 200; i++ {
		require.NoError(t, eng.Step())
		for _, id := range st.Units.Entities() {
			tags := st.ECS.Tags(id)
			require.False(t, tags.Has(component.TagDead) && tags.Has(component.TagSpawning))
			if !tags.Has(component.TagDead) {
				continue
			}
			sawDead = true
			u, _ := st.Units.Get(id)
			require.GreaterOrEqual(t, u.RespawnTick, st.Tick, "unit %d stayed Dead past its respawn tick", u.ID)
		}
	}
	assert.True(t, sawDead)
}

func TestRoleTagAssignedOnce(t *testing.T) {
	eng, err := New(Options{Workers: 2, Formulas: tableFormulas(t)})
	require.NoError(t, err)
	eng.Populate(200)
	require.NoError(t, eng.Step())

	st := eng.State()
	roles := map[uint32]component.Role{}
	for _, id := range st.Units.Entities() {
		u, _ := st.Units.Get(id)
		r := st.Role(id)
		require.True(t, r.Valid(), "unit %d has no role after spawn", u.ID)
		roles[u.ID] = r
	}
	_, err = eng.Run(30)
	require.NoError(t, err)
	for _, id := range st.Units.Entities() {
		u, _ := st.Units.Get(id)
		if want, ok := roles[u.ID]; ok {
			assert.Equal(t, want, st.Role(id))
		}
	}
}

func TestStepFailureKeepsTick(t *testing.T) {
	eng, err := New(Options{Workers: 1, ScratchLimit: 5, Formulas: tableFormulas(t)})
	require.NoError(t, err)
	eng.Populate(10)

	err = eng.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, scratch.ErrExhausted))
	assert.Equal(t, int64(0), eng.State().Tick)
}

func TestNewRequiresFormulas(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestEmptyWorldSteps(t *testing.T) {
	eng, err := New(Options{Workers: 3, Formulas: tableFormulas(t)})
	require.NoError(t, err)
	_, err = eng.Run(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), eng.State().Tick)
	assert.Len(t, eng.Timings(), 10)
	assert.Equal(t, []coresys.Phase{
		coresys.PhaseSpawn, coresys.PhaseRespawn, coresys.PhaseKill, coresys.PhaseRender,
		coresys.PhaseSprite, coresys.PhaseDamage, coresys.PhaseAttack, coresys.PhaseMovement,
		coresys.PhaseVelocity, coresys.PhaseClock,
	}, eng.Phases())
}
