// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/cliparse"
	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
)

type StreamHandler struct {
	store     *store.Store
	broker    realtime.Broker
	heartbeat time.Duration
}

func NewStreamHandler(db *sql.DB, cfg cliparse.Config, broker realtime.Broker) *StreamHandler {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = cliparse.DefaultHeartbeat
	}
	return &StreamHandler{store: store.New(db), broker: broker, heartbeat: heartbeat}
}

// Stream handles GET /jobs/{jobID}/stream
// It sends a full snapshot event on connect and again after every
// change notice for the job. Comment lines keep idle proxies open.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Subscribe before the first read so no change slips between them.
	sub, err := h.broker.Subscribe(ctx, jobID)
	if err != nil {
		slog.Error("failed to subscribe to job", "job_id", jobID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open stream")
		return
	}
	defer sub.Close()

	snap, err := h.store.Snapshot(ctx, jobID)
	if err != nil {
		storeError(w, "load snapshot", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	seq := 0
	send := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		seq++
		if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", seq, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(snap); err != nil {
		return
	}
	slog.Info("stream opened", "job_id", jobID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stream closed", "job_id", jobID, "events", seq)
			return
		case notice, ok := <-sub.C:
			if !ok {
				slog.Info("stream ended by broker", "job_id", jobID)
				return
			}
			snap, err := h.store.Snapshot(ctx, jobID)
			if err != nil {
				slog.Error("failed to reload snapshot", "job_id", jobID, "reason", notice.Reason, "error", err)
				return
			}
			if err := send(snap); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
