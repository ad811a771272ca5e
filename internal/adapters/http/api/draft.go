// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/shinny/internal/domain/draft"
	"github.com/okian/shinny/internal/domain/model"
)

// DraftDependencies defines the interface for draft board generation.
type DraftDependencies interface {
	DraftBoard(ctx context.Context) (*draft.Board, error)
	DynastyDraftBoard(ctx context.Context, traded model.TradedPicks) (*draft.Board, error)
}

// DraftHandler handles draft board requests.
type DraftHandler struct {
	deps DraftDependencies
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps DraftDependencies) *DraftHandler {
	return &DraftHandler{deps: deps}
}

// HandleGetDraft handles GET /draft requests for a fresh draft board.
func (h *DraftHandler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_draft"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	board, err := h.deps.DraftBoard(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// dynastyDraftRequest carries the traded-pick table: one map per round,
// original owner to current owner.
type dynastyDraftRequest struct {
	TradedPicks model.TradedPicks `json:"traded_picks"`
}

// HandlePostDynastyDraft handles POST /draft/dynasty requests.
func (h *DraftHandler) HandlePostDynastyDraft(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_dynasty_draft"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dynastyDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	board, err := h.deps.DynastyDraftBoard(r.Context(), req.TradedPicks)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}
