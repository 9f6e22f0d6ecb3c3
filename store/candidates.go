// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// CreateCandidate inserts a new candidate with no applications.
func (s *Store) CreateCandidate(ctx context.Context, name, email string) (models.Candidate, error) {
	c := models.Candidate{
		ID:           newID(),
		Name:         name,
		Email:        email,
		Applications: []models.JobApplication{},
		CreatedAt:    s.now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Name, c.Email, c.CreatedAt)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return c, nil
}

// Apply associates a candidate with a job. The application starts
// active in the first stage of the job's pipeline.
func (s *Store) Apply(ctx context.Context, candidateID, jobID string) (models.JobApplication, error) {
	pipeline, err := s.PipelineForJob(ctx, jobID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if len(pipeline.Stages) == 0 {
		return models.JobApplication{}, ErrNoStages
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate WHERE id = $1`, candidateID).Scan(&exists)
	if err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	if exists == 0 {
		return models.JobApplication{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}

	if _, err := getApplication(ctx, tx, candidateID, jobID); err == nil {
		return models.JobApplication{}, fmt.Errorf("application of %s to %s: %w", candidateID, jobID, ErrDuplicate)
	} else if !isNotFound(err) {
		return models.JobApplication{}, err
	}

	now := s.now()
	app := models.JobApplication{
		JobID:            jobID,
		CurrentStageID:   pipeline.Stages[0].ID,
		Status:           models.StatusActive,
		AppliedAt:        now,
		LastStatusChange: now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO job_application (candidate_id, job_id, current_stage_id, status, applied_at, last_status_change)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidateID, jobID, app.CurrentStageID, app.Status, app.AppliedAt, app.LastStatusChange)
	if err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to insert application: %w", err)
	}

	if err := insertHistory(ctx, tx, candidateID, jobID, "", app.CurrentStageID, app.Status, now); err != nil {
		return models.JobApplication{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to commit application: %w", err)
	}
	return app, nil
}

// Snapshot returns the job's pipeline and every candidate that applied
// to it, each with all of their applications.
func (s *Store) Snapshot(ctx context.Context, jobID string) (models.Snapshot, error) {
	pipeline, err := s.PipelineForJob(ctx, jobID)
	if err != nil {
		return models.Snapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.email, c.created_at
		FROM candidate c
		JOIN job_application a ON a.candidate_id = c.id
		WHERE a.job_id = $1
		ORDER BY a.applied_at, c.id
	`, jobID)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query candidates: %w", err)
	}

	candidates := []models.Candidate{}
	index := make(map[string]int)
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			rows.Close()
			return models.Snapshot{}, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Applications = []models.JobApplication{}
		index[c.ID] = len(candidates)
		candidates = append(candidates, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	appRows, err := s.db.QueryContext(ctx, `
		SELECT a.candidate_id, a.job_id, a.current_stage_id, a.status, a.applied_at, a.last_status_change
		FROM job_application a
		JOIN job_application mine ON mine.candidate_id = a.candidate_id
		WHERE mine.job_id = $1
		ORDER BY a.applied_at, a.job_id
	`, jobID)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query applications: %w", err)
	}
	defer appRows.Close()

	for appRows.Next() {
		var candidateID string
		var app models.JobApplication
		if err := appRows.Scan(&candidateID, &app.JobID, &app.CurrentStageID, &app.Status, &app.AppliedAt, &app.LastStatusChange); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to scan application: %w", err)
		}
		if i, ok := index[candidateID]; ok {
			candidates[i].Applications = append(candidates[i].Applications, app)
		}
	}
	if err := appRows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{JobID: jobID, Pipeline: pipeline, Candidates: candidates}, nil
}

// GetApplication returns one candidate's application to a job.
func (s *Store) GetApplication(ctx context.Context, candidateID, jobID string) (models.JobApplication, error) {
	return getApplication(ctx, s.db, candidateID, jobID)
}

// MoveStage sets the application's current stage. The target must be a
// stage id of the job's pipeline. Rejected applications are refused.
// Moving to the stage the application is already in changes nothing
// and reports changed=false.
func (s *Store) MoveStage(ctx context.Context, candidateID, jobID, targetStageID string) (models.JobApplication, bool, error) {
	pipeline, err := s.PipelineForJob(ctx, jobID)
	if err != nil {
		return models.JobApplication{}, false, err
	}
	if _, ok := pipeline.Stage(targetStageID); !ok {
		return models.JobApplication{}, false, fmt.Errorf("stage %s: %w", targetStageID, ErrInvalidStage)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	app, err := getApplication(ctx, tx, candidateID, jobID)
	if err != nil {
		return models.JobApplication{}, false, err
	}
	if app.Status == models.StatusRejected {
		return app, false, ErrRejected
	}
	if app.CurrentStageID == targetStageID {
		return app, false, nil
	}

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		UPDATE job_application
		SET current_stage_id = $1, last_status_change = $2
		WHERE candidate_id = $3 AND job_id = $4
	`, targetStageID, now, candidateID, jobID)
	if err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to move candidate: %w", err)
	}

	if err := insertHistory(ctx, tx, candidateID, jobID, app.CurrentStageID, targetStageID, app.Status, now); err != nil {
		return models.JobApplication{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to commit move: %w", err)
	}

	app.CurrentStageID = targetStageID
	app.LastStatusChange = now
	return app, true, nil
}

// UpdateStatus transitions an application's status. Setting a rejected
// application back to active reactivates it in the pipeline's first
// stage.
func (s *Store) UpdateStatus(ctx context.Context, candidateID, jobID, status string) (models.JobApplication, bool, error) {
	if !models.ValidStatus(status) {
		return models.JobApplication{}, false, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	app, err := getApplication(ctx, tx, candidateID, jobID)
	if err != nil {
		return models.JobApplication{}, false, err
	}
	if app.Status == status {
		return app, false, nil
	}

	stageID := app.CurrentStageID
	if app.Status == models.StatusRejected && status == models.StatusActive {
		pipeline, err := loadPipeline(ctx, tx, `SELECT id, job_id, name, created_at FROM pipeline WHERE job_id = $1`, jobID)
		if err != nil {
			return models.JobApplication{}, false, err
		}
		if len(pipeline.Stages) == 0 {
			return models.JobApplication{}, false, ErrNoStages
		}
		stageID = pipeline.Stages[0].ID
	}

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		UPDATE job_application
		SET status = $1, current_stage_id = $2, last_status_change = $3
		WHERE candidate_id = $4 AND job_id = $5
	`, status, stageID, now, candidateID, jobID)
	if err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to update status: %w", err)
	}

	if err := insertHistory(ctx, tx, candidateID, jobID, app.CurrentStageID, stageID, status, now); err != nil {
		return models.JobApplication{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return models.JobApplication{}, false, fmt.Errorf("failed to commit status: %w", err)
	}

	app.Status = status
	app.CurrentStageID = stageID
	app.LastStatusChange = now
	return app, true, nil
}

// History lists an application's changes, oldest first.
func (s *Store) History(ctx context.Context, candidateID, jobID string) ([]models.StageChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, job_id, from_stage_id, to_stage_id, status, changed_at
		FROM stage_history
		WHERE candidate_id = $1 AND job_id = $2
		ORDER BY changed_at, id
	`, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	changes := []models.StageChange{}
	for rows.Next() {
		var c models.StageChange
		if err := rows.Scan(&c.ID, &c.CandidateID, &c.JobID, &c.FromStageID, &c.ToStageID, &c.Status, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// SetStageReference overwrites the raw stage reference of an
// application without validation. It exists for importing rows from
// older systems, whose references may be names or positional tokens.
func (s *Store) SetStageReference(ctx context.Context, candidateID, jobID, ref string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE job_application SET current_stage_id = $1
		WHERE candidate_id = $2 AND job_id = $3
	`, ref, candidateID, jobID)
	if err != nil {
		return fmt.Errorf("failed to set stage reference: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("application of %s to %s: %w", candidateID, jobID, ErrNotFound)
	}
	return nil
}

func getApplication(ctx context.Context, q querier, candidateID, jobID string) (models.JobApplication, error) {
	var app models.JobApplication
	err := q.QueryRowContext(ctx, `
		SELECT job_id, current_stage_id, status, applied_at, last_status_change
		FROM job_application
		WHERE candidate_id = $1 AND job_id = $2
	`, candidateID, jobID).Scan(&app.JobID, &app.CurrentStageID, &app.Status, &app.AppliedAt, &app.LastStatusChange)
	if err == sql.ErrNoRows {
		return models.JobApplication{}, fmt.Errorf("application of %s to %s: %w", candidateID, jobID, ErrNotFound)
	}
	if err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to query application: %w", err)
	}
	return app, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertHistory(ctx context.Context, e execer, candidateID, jobID, from, to, status string, at time.Time) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO stage_history (id, candidate_id, job_id, from_stage_id, to_stage_id, status, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, newID(), candidateID, jobID, from, to, status, at)
	if err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
