// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pipeline board API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, broker)

The broker carries change notices from mutating handlers to open
streams. Use realtime.NewMemoryBroker for a single instance.

# Endpoints

Health:

	GET /health
	GET /

Pipelines:

	POST  /pipelines
	GET   /pipelines/templates
	GET   /pipelines/{id}
	PATCH /pipelines/{id}/stages/{stageID}
	PUT   /pipelines/{id}/stage-order
	POST  /jobs/{jobID}/pipeline
	GET   /jobs/{jobID}/pipeline

Candidates:

	POST  /candidates
	POST  /jobs/{jobID}/applications
	GET   /jobs/{jobID}/candidates
	PATCH /jobs/{jobID}/candidates/{candidateID}/stage
	PATCH /jobs/{jobID}/candidates/{candidateID}/status
	GET   /jobs/{jobID}/candidates/{candidateID}/history

Realtime:

	GET /jobs/{jobID}/stream

All routes except health and root are wrapped with middleware.WithLogging.
Wrap the mux with middleware.CORS when serving browsers.
*/
package router
