// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite file (required)
  - DatabaseType: sqlite (default) or postgres
  - RedisURL: Enables the Redis realtime broker when set
  - TemplatesPath: YAML pipeline templates to seed (built-in set when empty)
  - Heartbeat: Interval between keep-alive comments on board streams (default: 15s)

# CLI Flags

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  sqlite or postgres
	    --redis-url      Redis URL
	    --templates      Template YAML file
	    --heartbeat      Stream keep-alive interval, e.g. 15s
	    --env-file       Environment file (default: .env)

# Environment Variables

Before falling back to the environment, the file named by --env-file is
loaded with godotenv. A missing file is not an error. Variables already
present in the environment are not overridden by the file.

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	REDIS_URL          → --redis-url
	PIPELINE_TEMPLATES → --templates
	STREAM_HEARTBEAT   → --heartbeat

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is neither sqlite nor postgres
  - PORT or STREAM_HEARTBEAT cannot be parsed
  - the heartbeat is not positive
*/
package cliparse
