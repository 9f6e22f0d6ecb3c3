// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pipeline board API server.

The server is the authoritative side of a hiring board: jobs own an
ordered pipeline of stages, candidates apply to jobs, and recruiters move
them between stages. Clients move cards optimistically and reconcile
against the snapshots this server streams.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=board.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - REDIS_URL (--redis-url): Fan out change notices through Redis
  - PIPELINE_TEMPLATES (--templates): YAML templates to seed

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (pipelines, candidates, stream)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - store: SQL persistence and business rules
  - realtime: Change notice brokers (memory, Redis)
  - templates: YAML pipeline templates
  - board: Client engine (stage resolution, optimistic overlay, reconciliation, drag and drop)
  - clock: Injectable time source for the board's timers
  - db: Schema creation
  - cliparse: Configuration parsing

The boardctl command under cmd/ drives the board engine from a terminal.

See package documentation for each component.
*/
package main
