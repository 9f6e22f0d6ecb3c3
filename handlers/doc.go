// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pipeline board API.

# Handler Types

Each handler is a struct with database and broker dependencies. The
stream handler also takes the config for its heartbeat interval:

  - PipelineHandler: Templates, job pipelines, stage edits and ordering
  - CandidateHandler: Candidates, applications, stage and status changes
  - StreamHandler: Server-Sent Events feed of board snapshots

Handlers are created via constructor functions:

	candidateHandler := handlers.NewCandidateHandler(db, broker)
	streamHandler := handlers.NewStreamHandler(db, cfg, broker)

# Pipelines

	POST  /pipelines                          → CreatePipeline (no job_id = template)
	GET   /pipelines/templates                → ListTemplates
	GET   /pipelines/{id}                     → GetPipeline
	POST  /jobs/{jobID}/pipeline              → CreateJobPipeline (template_id or stages)
	GET   /jobs/{jobID}/pipeline              → GetJobPipeline
	PATCH /pipelines/{id}/stages/{stageID}    → UpdateStage
	PUT   /pipelines/{id}/stage-order         → ReorderStages

# Candidates

	POST  /candidates                                     → CreateCandidate
	POST  /jobs/{jobID}/applications                      → Apply
	GET   /jobs/{jobID}/candidates                        → GetSnapshot
	PATCH /jobs/{jobID}/candidates/{candidateID}/stage    → MoveStage
	PATCH /jobs/{jobID}/candidates/{candidateID}/status   → UpdateStatus
	GET   /jobs/{jobID}/candidates/{candidateID}/history  → GetHistory

MoveStage is idempotent: moving to the current stage returns 200 with
changed=false and publishes nothing. Rejected applications get 409 with
the message "cannot move rejected candidates".

# Realtime

Every effective mutation publishes a models.ChangeNotice for its job.
Stream subscribes first, then sends the current snapshot, then a fresh
snapshot per notice:

	id: 1
	event: snapshot
	data: {"job_id":"job-42","pipeline":{...},"candidates":[...]}

Idle connections receive ": heartbeat" comments.

# Error Handling

Store errors map to statuses in one place (storeError):

	store.ErrNotFound                    → 404
	store.ErrDuplicate, store.ErrRejected → 409
	invalid stage, status or order       → 400
	anything else                        → 500 "Database error"
*/
package handlers
