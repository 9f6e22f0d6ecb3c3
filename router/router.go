// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/mtauhidul/ats-ui-demo-sub000/cliparse"
	"github.com/mtauhidul/ats-ui-demo-sub000/handlers"
	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, broker realtime.Broker) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pipelineHandler := handlers.NewPipelineHandler(db, broker)
	candidateHandler := handlers.NewCandidateHandler(db, broker)
	streamHandler := handlers.NewStreamHandler(db, cfg, broker)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Pipelines and templates
	mux.HandleFunc("POST /pipelines", middleware.WithLogging(pipelineHandler.CreatePipeline))
	mux.HandleFunc("GET /pipelines/templates", middleware.WithLogging(pipelineHandler.ListTemplates))
	mux.HandleFunc("GET /pipelines/{id}", middleware.WithLogging(pipelineHandler.GetPipeline))
	mux.HandleFunc("PATCH /pipelines/{id}/stages/{stageID}", middleware.WithLogging(pipelineHandler.UpdateStage))
	mux.HandleFunc("PUT /pipelines/{id}/stage-order", middleware.WithLogging(pipelineHandler.ReorderStages))
	mux.HandleFunc("POST /jobs/{jobID}/pipeline", middleware.WithLogging(pipelineHandler.CreateJobPipeline))
	mux.HandleFunc("GET /jobs/{jobID}/pipeline", middleware.WithLogging(pipelineHandler.GetJobPipeline))

	// Candidates and applications
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidateHandler.CreateCandidate))
	mux.HandleFunc("POST /jobs/{jobID}/applications", middleware.WithLogging(candidateHandler.Apply))
	mux.HandleFunc("GET /jobs/{jobID}/candidates", middleware.WithLogging(candidateHandler.GetSnapshot))
	mux.HandleFunc("PATCH /jobs/{jobID}/candidates/{candidateID}/stage", middleware.WithLogging(candidateHandler.MoveStage))
	mux.HandleFunc("PATCH /jobs/{jobID}/candidates/{candidateID}/status", middleware.WithLogging(candidateHandler.UpdateStatus))
	mux.HandleFunc("GET /jobs/{jobID}/candidates/{candidateID}/history", middleware.WithLogging(candidateHandler.GetHistory))

	// Realtime board feed
	mux.HandleFunc("GET /jobs/{jobID}/stream", middleware.WithLogging(streamHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pipeline board API v1"))
	})

	return mux
}
