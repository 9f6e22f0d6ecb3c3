// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

The schema includes:

  - pipeline: Ordered stage lists; job_id NULL marks a template
  - stage: One step of a pipeline, ordered by position
  - candidate: Global candidate identity
  - job_application: A candidate's state within one job
  - stage_history: Every effective stage or status change

# Relationships

	pipeline 1──* stage
	candidate 1──* job_application
	job (external) 1──1 pipeline
	job (external) 1──* job_application

Stage and candidate foreign keys use ON DELETE CASCADE.
job_application.current_stage_id is a stage reference, not a foreign
key: it may hold a stage id, a stage name or a legacy positional token.

# Indexes

Performance indexes on:

  - pipeline.job_id (unique)
  - stage.pipeline_id
  - job_application.job_id
  - stage_history.(candidate_id, job_id)
*/
package db
