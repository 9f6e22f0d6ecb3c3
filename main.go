package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mtauhidul/ats-ui-demo-sub000/cliparse"
	"github.com/mtauhidul/ats-ui-demo-sub000/db"
	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/router"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
	"github.com/mtauhidul/ats-ui-demo-sub000/templates"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	if driver == "sqlite" {
		// SQLite allows one writer at a time
		dbConn.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err, "driver", driver)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "driver", driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed pipeline templates
	tmpls, err := templates.Load(cfg.TemplatesPath)
	if err != nil {
		slog.Error("failed to load pipeline templates", "error", err)
		os.Exit(1)
	}
	created, err := templates.Seed(ctx, store.New(dbConn), tmpls)
	if err != nil {
		slog.Error("failed to seed pipeline templates", "error", err)
		os.Exit(1)
	}
	slog.Info("Pipeline templates ready", "available", len(tmpls), "created", created)

	// Realtime fan-out
	var broker realtime.Broker
	if cfg.RedisURL != "" {
		redisBroker, err := realtime.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis broker unavailable", "error", err)
			os.Exit(1)
		}
		broker = redisBroker
		slog.Info("Using redis broker")
	} else {
		broker = realtime.NewMemoryBroker()
		slog.Info("Using in-memory broker")
	}
	defer broker.Close()

	// Create router
	mux := router.NewRouter(dbConn, cfg, broker)

	// Create server. Request contexts derive from ctx so open streams
	// end when shutdown begins.
	server := http.Server{
		Handler:     middleware.CORS(mux),
		Addr:        ":" + strconv.Itoa(cfg.Port),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		<-drained
		slog.Info("Server closed", "error", err)
	}
}
