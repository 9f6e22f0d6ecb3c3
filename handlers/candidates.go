// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
)

type CandidateHandler struct {
	store  *store.Store
	broker realtime.Broker
}

func NewCandidateHandler(db *sql.DB, broker realtime.Broker) *CandidateHandler {
	return &CandidateHandler{store: store.New(db), broker: broker}
}

// CreateCandidate handles POST /candidates
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := h.store.CreateCandidate(r.Context(), req.Name, strings.TrimSpace(req.Email))
	if err != nil {
		storeError(w, "create candidate", err)
		return
	}

	slog.Info("candidate created", "candidate_id", c.ID)
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// Apply handles POST /jobs/{jobID}/applications
func (h *CandidateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	var req models.ApplyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	app, err := h.store.Apply(r.Context(), req.CandidateID.ID, jobID)
	if err != nil {
		storeError(w, "apply candidate", err)
		return
	}

	slog.Info("candidate applied", "candidate_id", req.CandidateID.ID, "job_id", jobID, "stage_id", app.CurrentStageID)
	announce(r.Context(), h.broker, models.ChangeNotice{
		JobID:       jobID,
		Reason:      models.ReasonApplied,
		CandidateID: req.CandidateID.ID,
	})

	middleware.JSONResponse(w, http.StatusCreated, app)
}

// GetSnapshot handles GET /jobs/{jobID}/candidates
func (h *CandidateHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context(), r.PathValue("jobID"))
	if err != nil {
		storeError(w, "load snapshot", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}

// MoveStage handles PATCH /jobs/{jobID}/candidates/{candidateID}/stage
// Ids in the body are optional; when present they must agree with the
// path.
func (h *CandidateHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	candidateID := r.PathValue("candidateID")

	var req models.MoveStageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TargetStageID.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target_stage_id is required")
		return
	}
	if req.CandidateID.ID != "" && req.CandidateID.ID != candidateID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id does not match path")
		return
	}
	if req.JobID.ID != "" && req.JobID.ID != jobID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "job_id does not match path")
		return
	}

	app, changed, err := h.store.MoveStage(r.Context(), candidateID, jobID, req.TargetStageID.ID)
	if err != nil {
		storeError(w, "move candidate", err)
		return
	}

	if changed {
		slog.Info("candidate moved", "candidate_id", candidateID, "job_id", jobID, "stage_id", app.CurrentStageID)
		announce(r.Context(), h.broker, models.ChangeNotice{
			JobID:       jobID,
			Reason:      models.ReasonStageChanged,
			CandidateID: candidateID,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.MoveStageResponse{
		CandidateID: candidateID,
		Application: app,
		Changed:     changed,
	})
}

// UpdateStatus handles PATCH /jobs/{jobID}/candidates/{candidateID}/status
func (h *CandidateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	candidateID := r.PathValue("candidateID")

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status is required")
		return
	}

	app, changed, err := h.store.UpdateStatus(r.Context(), candidateID, jobID, req.Status)
	if err != nil {
		storeError(w, "update status", err)
		return
	}

	if changed {
		slog.Info("application status changed", "candidate_id", candidateID, "job_id", jobID, "status", app.Status)
		announce(r.Context(), h.broker, models.ChangeNotice{
			JobID:       jobID,
			Reason:      models.ReasonStatusChanged,
			CandidateID: candidateID,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.MoveStageResponse{
		CandidateID: candidateID,
		Application: app,
		Changed:     changed,
	})
}

// GetHistory handles GET /jobs/{jobID}/candidates/{candidateID}/history
func (h *CandidateHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	candidateID := r.PathValue("candidateID")

	if _, err := h.store.GetApplication(r.Context(), candidateID, jobID); err != nil {
		storeError(w, "load application", err)
		return
	}

	changes, err := h.store.History(r.Context(), candidateID, jobID)
	if err != nil {
		storeError(w, "load history", err)
		return
	}
	for i := range changes {
		changes[i].Since = humanize.Time(changes[i].ChangedAt)
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		CandidateID: candidateID,
		JobID:       jobID,
		Changes:     changes,
	})
}
