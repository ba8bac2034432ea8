package persist

import (
	"context"
	"time"
)

// SessionRow mirrors one row of the sessions table: the telemetry summary
// of a single play session.
type SessionRow struct {
	ID                  int64
	ServerID            int
	StartedAt           time.Time
	EndedAt             *time.Time
	DurationSeconds     float64
	FinalLevel          int
	Kills               int
	Spawned             int
	Waves               int
	Culled              int
	PeakActive          int
	SkippedEmptyCatalog int
	SkippedPlacement    int
	SkippedPool         int
}

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Begin inserts the session row at session start and returns its ID for
// later checkpoints.
func (r *SessionRepo) Begin(ctx context.Context, serverID int) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (server_id) VALUES ($1) RETURNING id`,
		serverID,
	).Scan(&id)
	return id, err
}

// Checkpoint overwrites the running counters. Called on the persist cadence
// so a crash loses at most one interval of telemetry.
func (r *SessionRepo) Checkpoint(ctx context.Context, row SessionRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions
		    SET duration_seconds = $2, final_level = $3, kills = $4,
		        spawned = $5, waves = $6, culled = $7, peak_active = $8,
		        skipped_empty_catalog = $9, skipped_placement = $10,
		        skipped_pool = $11
		  WHERE id = $1`,
		row.ID, row.DurationSeconds, row.FinalLevel, row.Kills,
		row.Spawned, row.Waves, row.Culled, row.PeakActive,
		row.SkippedEmptyCatalog, row.SkippedPlacement, row.SkippedPool,
	)
	return err
}

// Finish stamps the end time after a final checkpoint. Called on graceful
// shutdown.
func (r *SessionRepo) Finish(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions SET ended_at = now() WHERE id = $1`, id)
	return err
}

// Recent returns summaries of the latest n sessions, newest first. Used by
// the console's history command.
func (r *SessionRepo) Recent(ctx context.Context, n int) ([]SessionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, server_id, started_at, ended_at, duration_seconds,
		        final_level, kills, spawned, waves, culled, peak_active,
		        skipped_empty_catalog, skipped_placement, skipped_pool
		   FROM sessions
		  ORDER BY started_at DESC
		  LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var row SessionRow
		if err := rows.Scan(
			&row.ID, &row.ServerID, &row.StartedAt, &row.EndedAt,
			&row.DurationSeconds, &row.FinalLevel, &row.Kills, &row.Spawned,
			&row.Waves, &row.Culled, &row.PeakActive,
			&row.SkippedEmptyCatalog, &row.SkippedPlacement, &row.SkippedPool,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
