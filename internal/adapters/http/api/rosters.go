// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/shinny/internal/domain/model"
)

// RosterDependencies defines the interface for roster operations.
type RosterDependencies interface {
	SetComposition(ctx context.Context, participantID string, c model.Composition) error
	RegisterPlayers(ctx context.Context, players []model.Player)
}

// RostersHandler handles roster composition and player directory updates.
type RostersHandler struct {
	deps RosterDependencies
}

// NewRostersHandler creates a new rosters handler.
func NewRostersHandler(deps RosterDependencies) *RostersHandler {
	return &RostersHandler{deps: deps}
}

// HandlePutRoster handles PUT /rosters/{participant} requests.
func (h *RostersHandler) HandlePutRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_roster"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	participantID := strings.TrimPrefix(r.URL.Path, "/rosters/")
	if participantID == "" || strings.Contains(participantID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing participant id")))
		return
	}
	var comp model.Composition
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetComposition(r.Context(), participantID, comp); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}

// HandlePostPlayers handles POST /players requests, merging identities into
// the player directory.
func (h *RostersHandler) HandlePostPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_players"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var players []model.Player
	if err := json.NewDecoder(r.Body).Decode(&players); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.RegisterPlayers(r.Context(), players)
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}
