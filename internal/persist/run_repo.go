package persist

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one benchmark run as stored in bench_runs.
type RunRecord struct {
	ID        int64
	StartedAt time.Time
	Mode      string
	Workers   int
	Entities  int
	Ticks     int
	Elapsed   time.Duration
	Digest    string

	Killed, Respawned, Launched, Landed, Fizzled int64

	// Phases maps a pipeline phase name to its cumulative wall time.
	Phases map[string]time.Duration
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Save writes the run and its phase timings in one transaction and returns
// the new run id.
func (r *RunRepo) Save(ctx context.Context, rec RunRecord) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO bench_runs (mode, workers, entities, ticks, elapsed_ns, digest,
		                         killed, respawned, launched, landed, fizzled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		rec.Mode, rec.Workers, rec.Entities, rec.Ticks, rec.Elapsed.Nanoseconds(), rec.Digest,
		rec.Killed, rec.Respawned, rec.Launched, rec.Landed, rec.Fizzled,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("run insert: %w", err)
	}

	for phase, d := range rec.Phases {
		if _, err := tx.Exec(ctx,
			`INSERT INTO bench_run_phases (run_id, phase, elapsed_ns) VALUES ($1, $2, $3)`,
			id, phase, d.Nanoseconds(),
		); err != nil {
			return 0, fmt.Errorf("run phase insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("run commit: %w", err)
	}
	return id, nil
}

// Recent returns the latest runs, newest first, without phase timings.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, started_at, mode, workers, entities, ticks, elapsed_ns, digest,
		        killed, respawned, launched, landed, fizzled
		 FROM bench_runs ORDER BY id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var elapsed int64
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.Mode, &rec.Workers, &rec.Entities,
			&rec.Ticks, &elapsed, &rec.Digest,
			&rec.Killed, &rec.Respawned, &rec.Launched, &rec.Landed, &rec.Fizzled); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Elapsed = time.Duration(elapsed)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Matching returns how many stored runs ended with digest. Runs of the same
// entity count and tick count must agree regardless of mode or workers.
func (r *RunRepo) Matching(ctx context.Context, entities, ticks int, digest string) (agree, disagree int, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE digest = $3), count(*) FILTER (WHERE digest <> $3)
		 FROM bench_runs WHERE entities = $1 AND ticks = $2`,
		entities, ticks, digest,
	).Scan(&agree, &disagree)
	if err != nil {
		return 0, 0, fmt.Errorf("matching runs: %w", err)
	}
	return agree, disagree, nil
}
