// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
)

type PipelineHandler struct {
	store  *store.Store
	broker realtime.Broker
}

func NewPipelineHandler(db *sql.DB, broker realtime.Broker) *PipelineHandler {
	return &PipelineHandler{store: store.New(db), broker: broker}
}

// CreatePipeline handles POST /pipelines
// An empty job_id creates a reusable template.
func (h *PipelineHandler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePipelineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if msg := validateStages(req.Stages); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.store.CreatePipeline(r.Context(), req.JobID, req.Name, req.Stages)
	if err != nil {
		storeError(w, "create pipeline", err)
		return
	}

	slog.Info("pipeline created", "pipeline_id", p.ID, "job_id", p.JobID, "stages", len(p.Stages))
	announce(r.Context(), h.broker, models.ChangeNotice{JobID: p.JobID, Reason: models.ReasonPipelineChanged})

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// GetPipeline handles GET /pipelines/{id}
func (h *PipelineHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPipeline(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, "load pipeline", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// ListTemplates handles GET /pipelines/templates
func (h *PipelineHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		storeError(w, "list templates", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, templates)
}

// CreateJobPipeline handles POST /jobs/{jobID}/pipeline
// The pipeline is cloned from template_id when given, otherwise built
// from the explicit stages.
func (h *PipelineHandler) CreateJobPipeline(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	var req models.CreateJobPipelineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var p models.Pipeline
	var err error
	if req.TemplateID.ID != "" {
		template, terr := h.store.GetPipeline(r.Context(), req.TemplateID.ID)
		if terr != nil {
			storeError(w, "load template", terr)
			return
		}
		if !template.IsTemplate() {
			middleware.ErrorResponse(w, http.StatusBadRequest, "template_id does not name a template")
			return
		}
		p, err = h.store.InstantiatePipeline(r.Context(), template.ID, jobID, req.Name)
	} else {
		if msg := validateStages(req.Stages); msg != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, msg)
			return
		}
		p, err = h.store.CreatePipeline(r.Context(), jobID, req.Name, req.Stages)
	}
	if err != nil {
		storeError(w, "create job pipeline", err)
		return
	}

	slog.Info("job pipeline created", "job_id", jobID, "pipeline_id", p.ID, "template_id", req.TemplateID.ID)
	announce(r.Context(), h.broker, models.ChangeNotice{JobID: jobID, Reason: models.ReasonPipelineChanged})

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// GetJobPipeline handles GET /jobs/{jobID}/pipeline
func (h *PipelineHandler) GetJobPipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.PipelineForJob(r.Context(), r.PathValue("jobID"))
	if err != nil {
		storeError(w, "load job pipeline", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateStage handles PATCH /pipelines/{id}/stages/{stageID}
func (h *PipelineHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == nil && req.Color == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name or color is required")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	p, err := h.store.UpdateStage(r.Context(), r.PathValue("id"), r.PathValue("stageID"), req.Name, req.Color)
	if err != nil {
		storeError(w, "update stage", err)
		return
	}

	slog.Info("stage updated", "pipeline_id", p.ID, "stage_id", r.PathValue("stageID"))
	announce(r.Context(), h.broker, models.ChangeNotice{JobID: p.JobID, Reason: models.ReasonPipelineChanged})

	middleware.JSONResponse(w, http.StatusOK, p)
}

// ReorderStages handles PUT /pipelines/{id}/stage-order
func (h *PipelineHandler) ReorderStages(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderStagesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.store.ReorderStages(r.Context(), r.PathValue("id"), req.StageIDs)
	if err != nil {
		storeError(w, "reorder stages", err)
		return
	}

	slog.Info("stages reordered", "pipeline_id", p.ID)
	announce(r.Context(), h.broker, models.ChangeNotice{JobID: p.JobID, Reason: models.ReasonPipelineChanged})

	middleware.JSONResponse(w, http.StatusOK, p)
}

func validateStages(stages []models.StageInput) string {
	if len(stages) == 0 {
		return "at least one stage is required"
	}
	for _, st := range stages {
		if strings.TrimSpace(st.Name) == "" {
			return "every stage needs a name"
		}
	}
	return ""
}
