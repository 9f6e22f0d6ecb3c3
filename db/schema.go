// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Pipelines (job_id NULL = reusable template)
CREATE TABLE IF NOT EXISTS pipeline (
    id TEXT PRIMARY KEY,
    job_id TEXT UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Stages
CREATE TABLE IF NOT EXISTS stage (
    id TEXT PRIMARY KEY,
    pipeline_id TEXT NOT NULL REFERENCES pipeline(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stage_pipeline_id ON stage(pipeline_id);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Job applications. current_stage_id is deliberately not a foreign key:
-- rows written by older clients hold stage names or positional tokens.
CREATE TABLE IF NOT EXISTS job_application (
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    job_id TEXT NOT NULL,
    current_stage_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'rejected', 'hired', 'withdrawn')),
    applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_status_change TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (candidate_id, job_id)
);

CREATE INDEX IF NOT EXISTS idx_job_application_job_id ON job_application(job_id);

-- Stage and status history
CREATE TABLE IF NOT EXISTS stage_history (
    id TEXT PRIMARY KEY,
    candidate_id TEXT NOT NULL,
    job_id TEXT NOT NULL,
    from_stage_id TEXT NOT NULL DEFAULT '',
    to_stage_id TEXT NOT NULL,
    status TEXT NOT NULL,
    changed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_stage_history_application ON stage_history(candidate_id, job_id);
`
