// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/shinny/internal/domain/model"
)

// TradeDependencies defines the interface for trade operations.
type TradeDependencies interface {
	RecordTrade(ctx context.Context, t model.Trade) error
}

// TradesHandler handles trade requests.
type TradesHandler struct {
	deps TradeDependencies
}

// NewTradesHandler creates a new trades handler.
func NewTradesHandler(deps TradeDependencies) *TradesHandler {
	return &TradesHandler{deps: deps}
}

// HandlePostTrade handles POST /trades requests.
func (h *TradesHandler) HandlePostTrade(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_trade"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var trade model.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.RecordTrade(r.Context(), trade); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
