// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/timeseries"
)

// SeriesDependencies defines the interface for chart series generation.
type SeriesDependencies interface {
	Series(ctx context.Context, playerID, participantID string, from, to model.Day) ([]timeseries.Point, error)
	SeasonRange(ctx context.Context) (model.Day, model.Day, error)
}

// SeriesHandler handles cumulative chart series requests.
type SeriesHandler struct {
	deps SeriesDependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps SeriesDependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

// HandleGetSeries handles GET /series?player=&participant=&from=&to=.
func (h *SeriesHandler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_series"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	playerID := r.URL.Query().Get("player")
	participantID := r.URL.Query().Get("participant")
	if playerID == "" || participantID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("player and participant are required")))
		return
	}

	seasonFrom, seasonTo, err := h.deps.SeasonRange(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	from, err := parseDayParam(r, "from", seasonFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	to, err := parseDayParam(r, "to", seasonTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	points, err := h.deps.Series(r.Context(), playerID, participantID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, points)
}
