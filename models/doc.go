// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Pipeline: ordered stages; an empty JobID marks a template
  - Stage: id, name, color, order
  - Candidate: identity plus one JobApplication per job applied to
  - JobApplication: current_stage_id and status within one job
  - Snapshot: a job's pipeline with every candidate that applied to it
  - StageChange: one stage_history row

current_stage_id is stored as written. Older rows may hold a stage name
or a positional token; readers resolve it against the pipeline rather
than trusting it.

# Request Types

  - CreatePipelineRequest: job_id, name, stages
  - CreateJobPipelineRequest: template_id or stages
  - UpdateStageRequest: name, color (both optional)
  - ReorderStagesRequest: stage_ids
  - CreateCandidateRequest: name, email
  - ApplyRequest: candidate_id
  - MoveStageRequest: candidate_id, job_id, target_stage_id
  - UpdateStatusRequest: status

# Identifier Normalization

Fields typed Ref accept a bare string or an object carrying id or the
legacy _id, and expose only the normalized Ref.ID:

	"c1"            → c1
	{"id": "c1"}    → c1
	{"_id": "c1"}   → c1

Refs marshal back as bare strings.

# Response Types

  - CreatedResponse: id
  - MoveStageResponse: candidate_id, application, changed
  - HistoryResponse: candidate_id, job_id, changes
  - ChangeNotice: job_id, reason, candidate_id
  - ErrorResponse: error, message

# Constants

Application status values:

	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusHired     = "hired"
	StatusWithdrawn = "withdrawn"
*/
package models
