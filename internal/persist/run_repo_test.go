package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/l1jgo/tickbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Needs a disposable PostgreSQL database; skipped unless TICKBENCH_TEST_DSN
// is set.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TICKBENCH_TEST_DSN")
	if dsn == "" {
		t.Skip("TICKBENCH_TEST_DSN not set")
	}
	cfg := config.Default().Database
	cfg.DSN = dsn
	ctx := context.Background()
	db, err := NewDB(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRunRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()

	rec := RunRecord{
		Mode: "parallel", Workers: 4, Entities: 1000, Ticks: 200,
		Elapsed: 1500 * time.Millisecond, Digest: "deadbeefcafef00d",
		Killed: 12, Respawned: 10, Launched: 900, Landed: 850, Fizzled: 30,
		Phases: map[string]time.Duration{"attack": time.Second, "damage": 200 * time.Millisecond},
	}
	id, err := repo.Save(ctx, rec)
	require.NoError(t, err)
	require.Positive(t, id)

	recent, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	got := recent[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.Digest, got.Digest)
	assert.Equal(t, rec.Elapsed, got.Elapsed)
	assert.Equal(t, rec.Landed, got.Landed)

	agree, _, err := repo.Matching(ctx, 1000, 200, rec.Digest)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, agree, 1)
}

func TestNewDBRejectsBadDSN(t *testing.T) {
	cfg := config.Default().Database
	cfg.DSN = "postgres://bench@%zz/bench"
	_, err := NewDB(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
