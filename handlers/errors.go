// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtauhidul/ats-ui-demo-sub000/middleware"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
)

// storeError maps store sentinels to HTTP statuses. Anything else is a
// 500 and gets logged with op.
func storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrRejected):
		middleware.ErrorResponse(w, http.StatusConflict, store.ErrRejected.Error())
	case errors.Is(err, store.ErrDuplicate):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidStage),
		errors.Is(err, store.ErrNoStages),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrInvalidOrder):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// announce publishes a change notice. Delivery is best effort.
func announce(ctx context.Context, broker realtime.Broker, notice models.ChangeNotice) {
	if broker == nil || notice.JobID == "" {
		return
	}
	if err := broker.Publish(ctx, notice); err != nil {
		slog.Warn("failed to publish change notice",
			"job_id", notice.JobID,
			"reason", notice.Reason,
			"error", err,
		)
	}
}
