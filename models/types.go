// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Application status constants
const (
	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusHired     = "hired"
	StatusWithdrawn = "withdrawn"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusRejected, StatusHired, StatusWithdrawn:
		return true
	}
	return false
}

// Domain types

type Stage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// Pipeline is an ordered list of stages. A pipeline without a JobID is a
// reusable template and never shown on a board.
type Pipeline struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Stages    []Stage   `json:"stages"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTemplate reports whether the pipeline is not bound to a job.
func (p Pipeline) IsTemplate() bool {
	return p.JobID == ""
}

// Stage returns the stage with the given id.
func (p Pipeline) Stage(id string) (Stage, bool) {
	for _, s := range p.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

type JobApplication struct {
	JobID            string    `json:"job_id"`
	CurrentStageID   string    `json:"current_stage_id"`
	Status           string    `json:"status"`
	AppliedAt        time.Time `json:"applied_at"`
	LastStatusChange time.Time `json:"last_status_change"`
}

type Candidate struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email,omitempty"`
	Applications []JobApplication `json:"applications"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Application returns the candidate's application for jobID.
func (c Candidate) Application(jobID string) (JobApplication, bool) {
	for _, app := range c.Applications {
		if app.JobID == jobID {
			return app, true
		}
	}
	return JobApplication{}, false
}

// Snapshot is the authoritative state of one job's board: its pipeline
// and every candidate that applied to it.
type Snapshot struct {
	JobID      string      `json:"job_id"`
	Pipeline   Pipeline    `json:"pipeline"`
	Candidates []Candidate `json:"candidates"`
}

// StageChange is one row of a candidate's history within a job.
type StageChange struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	FromStageID string    `json:"from_stage_id,omitempty"`
	ToStageID   string    `json:"to_stage_id"`
	Status      string    `json:"status"`
	ChangedAt   time.Time `json:"changed_at"`
	Since       string    `json:"since,omitempty"`
}

// Request types

type StageInput struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type CreatePipelineRequest struct {
	JobID  string       `json:"job_id"`
	Name   string       `json:"name"`
	Stages []StageInput `json:"stages"`
}

// TemplateID accepts either a bare id or an object carrying one.
type CreateJobPipelineRequest struct {
	TemplateID Ref          `json:"template_id"`
	Name       string       `json:"name"`
	Stages     []StageInput `json:"stages"`
}

type UpdateStageRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type ReorderStagesRequest struct {
	StageIDs []string `json:"stage_ids"`
}

type CreateCandidateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ApplyRequest struct {
	CandidateID Ref `json:"candidate_id"`
}

// MoveStageRequest mirrors the stage-change mutation body. Path values
// take precedence; body ids are accepted for clients that send them.
type MoveStageRequest struct {
	CandidateID   Ref `json:"candidate_id"`
	JobID         Ref `json:"job_id"`
	TargetStageID Ref `json:"target_stage_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response types

type CreatedResponse struct {
	ID string `json:"id"`
}

type MoveStageResponse struct {
	CandidateID string         `json:"candidate_id"`
	Application JobApplication `json:"application"`
	Changed     bool           `json:"changed"`
}

type HistoryResponse struct {
	CandidateID string        `json:"candidate_id"`
	JobID       string        `json:"job_id"`
	Changes     []StageChange `json:"changes"`
}

// Realtime

// ChangeNotice tells stream subscribers that a job's board changed.
type ChangeNotice struct {
	JobID       string `json:"job_id"`
	Reason      string `json:"reason"`
	CandidateID string `json:"candidate_id,omitempty"`
}

// Change notice reasons
const (
	ReasonApplied         = "applied"
	ReasonStageChanged    = "stage_changed"
	ReasonStatusChanged   = "status_changed"
	ReasonPipelineChanged = "pipeline_changed"
)

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
