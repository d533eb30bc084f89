// Package postgres implements the store.Store contract on PostgreSQL with
// per-row user scoping. This is the multi-user deployment backend.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-tailor/internal/store"
)

// DB wraps a PostgreSQL connection pool and implements store.Store.
type DB struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*DB)(nil)

// Connect establishes a connection pool and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// initSchema creates the three tables if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS resumes (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id     TEXT NOT NULL,
    name        TEXT NOT NULL,
    resume_text TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS jobs (
    id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id          TEXT NOT NULL,
    company          TEXT NOT NULL,
    title            TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    url              TEXT NOT NULL DEFAULT '',
    jd_text          TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'Target',
    status_date      DATE,
    applied_date     DATE,
    followup_date    DATE,
    finished_date    DATE,
    finished_outcome TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS versions (
    id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id             TEXT NOT NULL,
    job_id              UUID NOT NULL REFERENCES jobs(id),
    base_resume_id      UUID NOT NULL REFERENCES resumes(id),
    version_name        TEXT NOT NULL,
    tailored_resume     TEXT NOT NULL,
    changes_summary     TEXT NOT NULL DEFAULT '[]',
    suggested_additions TEXT NOT NULL DEFAULT '[]',
    accuracy_checklist  TEXT NOT NULL DEFAULT '[]',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_jobs_user ON jobs (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_jobs_followup ON jobs (user_id, followup_date);
CREATE INDEX IF NOT EXISTS idx_versions_job ON versions (user_id, job_id, created_at DESC);
`
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
