// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/shinny/internal/domain/model"
)

// SnapshotDependencies defines the interface for snapshot ingestion.
type SnapshotDependencies interface {
	IngestSnapshot(ctx context.Context, snap model.DailySnapshot) error
	SetLeadersFeed(ctx context.Context, feed *model.LeadersFeed)
}

// SnapshotsHandler handles snapshot and live feed ingestion.
type SnapshotsHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotDependencies) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps}
}

// HandlePostSnapshot handles POST /snapshots requests.
func (h *SnapshotsHandler) HandlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_snapshot"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var snap model.DailySnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if snap.Day == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing date")))
		return
	}
	if err := h.deps.IngestSnapshot(r.Context(), snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandlePutFeed handles PUT /feed requests, replacing the live leaders feed
// used to resolve events on non-cumulated days.
func (h *SnapshotsHandler) HandlePutFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_feed"
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var feed model.LeadersFeed
	if err := json.NewDecoder(r.Body).Decode(&feed); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.SetLeadersFeed(r.Context(), &feed)
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
