// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreatePipeline inserts a pipeline with stages in the given order. An
// empty jobID creates a template. A job can own only one pipeline.
func (s *Store) CreatePipeline(ctx context.Context, jobID, name string, stages []models.StageInput) (models.Pipeline, error) {
	if len(stages) == 0 {
		return models.Pipeline{}, ErrNoStages
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if jobID != "" {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM pipeline WHERE job_id = $1`, jobID).Scan(&existing)
		if err == nil {
			return models.Pipeline{}, fmt.Errorf("pipeline for job %s: %w", jobID, ErrDuplicate)
		}
		if err != sql.ErrNoRows {
			return models.Pipeline{}, fmt.Errorf("failed to check pipeline: %w", err)
		}
	}

	p := models.Pipeline{
		ID:        newID(),
		JobID:     jobID,
		Name:      name,
		CreatedAt: s.now(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pipeline (id, job_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, nullString(jobID), name, p.CreatedAt)
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to insert pipeline: %w", err)
	}

	for i, in := range stages {
		stage := models.Stage{ID: newID(), Name: in.Name, Color: in.Color, Order: i}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stage (id, pipeline_id, name, color, position)
			VALUES ($1, $2, $3, $4, $5)
		`, stage.ID, p.ID, stage.Name, stage.Color, stage.Order)
		if err != nil {
			return models.Pipeline{}, fmt.Errorf("failed to insert stage: %w", err)
		}
		p.Stages = append(p.Stages, stage)
	}

	if err := tx.Commit(); err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to commit pipeline: %w", err)
	}
	return p, nil
}

// InstantiatePipeline gives jobID its own copy of a template's stages.
func (s *Store) InstantiatePipeline(ctx context.Context, templateID, jobID, name string) (models.Pipeline, error) {
	template, err := s.GetPipeline(ctx, templateID)
	if err != nil {
		return models.Pipeline{}, err
	}
	if name == "" {
		name = template.Name
	}

	inputs := make([]models.StageInput, 0, len(template.Stages))
	for _, st := range template.Stages {
		inputs = append(inputs, models.StageInput{Name: st.Name, Color: st.Color})
	}
	return s.CreatePipeline(ctx, jobID, name, inputs)
}

// GetPipeline loads a pipeline and its stages sorted by order.
func (s *Store) GetPipeline(ctx context.Context, id string) (models.Pipeline, error) {
	return loadPipeline(ctx, s.db, `SELECT id, job_id, name, created_at FROM pipeline WHERE id = $1`, id)
}

// PipelineForJob returns the pipeline bound to jobID.
func (s *Store) PipelineForJob(ctx context.Context, jobID string) (models.Pipeline, error) {
	return loadPipeline(ctx, s.db, `SELECT id, job_id, name, created_at FROM pipeline WHERE job_id = $1`, jobID)
}

// ListTemplates returns every pipeline that is not bound to a job.
func (s *Store) ListTemplates(ctx context.Context) ([]models.Pipeline, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM pipeline WHERE job_id IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]models.Pipeline, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPipeline(ctx, id)
		if err != nil {
			return nil, err
		}
		templates = append(templates, p)
	}
	return templates, nil
}

// UpdateStage renames or recolors a stage. Nil fields are left alone.
func (s *Store) UpdateStage(ctx context.Context, pipelineID, stageID string, name, color *string) (models.Pipeline, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stage
		SET name = COALESCE($1, name), color = COALESCE($2, color)
		WHERE id = $3 AND pipeline_id = $4
	`, optional(name), optional(color), stageID, pipelineID)
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to update stage: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.Pipeline{}, fmt.Errorf("stage %s: %w", stageID, ErrNotFound)
	}
	return s.GetPipeline(ctx, pipelineID)
}

// ReorderStages assigns dense positions following stageIDs, which must
// be a permutation of the pipeline's stages.
func (s *Store) ReorderStages(ctx context.Context, pipelineID string, stageIDs []string) (models.Pipeline, error) {
	current, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return models.Pipeline{}, err
	}
	if len(stageIDs) != len(current.Stages) {
		return models.Pipeline{}, ErrInvalidOrder
	}
	seen := make(map[string]bool, len(stageIDs))
	for _, id := range stageIDs {
		if _, ok := current.Stage(id); !ok || seen[id] {
			return models.Pipeline{}, ErrInvalidOrder
		}
		seen[id] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range stageIDs {
		_, err := tx.ExecContext(ctx, `UPDATE stage SET position = $1 WHERE id = $2 AND pipeline_id = $3`, i, id, pipelineID)
		if err != nil {
			return models.Pipeline{}, fmt.Errorf("failed to reorder stage: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to commit reorder: %w", err)
	}
	return s.GetPipeline(ctx, pipelineID)
}

func loadPipeline(ctx context.Context, q querier, query string, arg string) (models.Pipeline, error) {
	var p models.Pipeline
	var jobID sql.NullString
	err := q.QueryRowContext(ctx, query, arg).Scan(&p.ID, &jobID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Pipeline{}, fmt.Errorf("pipeline %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to query pipeline: %w", err)
	}
	p.JobID = jobID.String

	rows, err := q.QueryContext(ctx, `
		SELECT id, name, color, position
		FROM stage
		WHERE pipeline_id = $1
		ORDER BY position, id
	`, p.ID)
	if err != nil {
		return models.Pipeline{}, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()

	p.Stages = []models.Stage{}
	for rows.Next() {
		var st models.Stage
		if err := rows.Scan(&st.ID, &st.Name, &st.Color, &st.Order); err != nil {
			return models.Pipeline{}, fmt.Errorf("failed to scan stage: %w", err)
		}
		p.Stages = append(p.Stages, st)
	}
	return p, rows.Err()
}

func optional(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
