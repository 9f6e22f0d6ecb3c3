// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrRejected      = errors.New("cannot move rejected candidates")
	ErrInvalidStage  = errors.New("stage does not belong to the job's pipeline")
	ErrNoStages      = errors.New("pipeline has no stages")
	ErrInvalidStatus = errors.New("invalid application status")
	ErrInvalidOrder  = errors.New("stage order must list every stage exactly once")
)

// Store is the backend's single writer of pipeline and candidate state.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func newID() string {
	return uuid.NewString()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
