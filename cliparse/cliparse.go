package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultPort      = 3318
	DefaultHeartbeat = 15 * time.Second
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	RedisURL      string
	TemplatesPath string
	Heartbeat     time.Duration
}

// ParseFlags loads an optional .env file, then reads flags with
// environment fallback.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := pflag.NewFlagSet("pipeline-board", pflag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	flags.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for cross-instance realtime fan-out")

	// Board behavior
	flags.StringVar(&cfg.TemplatesPath, "templates", "", "YAML file of pipeline templates to seed")
	flags.DurationVar(&cfg.Heartbeat, "heartbeat", 0, "Interval between keep-alive comments on board streams")

	flags.StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading variables")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.TemplatesPath == "" {
		cfg.TemplatesPath = os.Getenv("PIPELINE_TEMPLATES")
	}

	if !flags.Changed("heartbeat") {
		if s := os.Getenv("STREAM_HEARTBEAT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid STREAM_HEARTBEAT env variable")
			}
			cfg.Heartbeat = d
		} else {
			cfg.Heartbeat = DefaultHeartbeat
		}
	}
	if cfg.Heartbeat <= 0 {
		return Config{}, errors.New("heartbeat must be positive")
	}

	return cfg, nil
}
