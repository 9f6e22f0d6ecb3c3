// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists pipelines, candidates and their job applications.

The store is the authoritative side of the board: clients propose moves
optimistically, and this package decides what actually happened.

# Pipelines

A pipeline with an empty job id is a template. Jobs own at most one
pipeline, either created directly or cloned from a template:

	p, err := s.InstantiatePipeline(ctx, templateID, "job-42", "")

Stages keep a dense position 0..n-1; ReorderStages rewrites it from a
full permutation of stage ids.

# Applications

Apply places a candidate in the first stage with status active.
MoveStage validates that the target belongs to the job's pipeline and
refuses rejected applications with ErrRejected. Moving to the current
stage is a no-op that writes nothing. Every effective change appends a
stage_history row.

# Errors

Callers match the sentinel errors with errors.Is:

	switch {
	case errors.Is(err, store.ErrNotFound):
	case errors.Is(err, store.ErrRejected):
	}
*/
package store
