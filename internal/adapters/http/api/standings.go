// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	Standings(ctx context.Context) ([]ranking.ParticipantRanking, error)
	DailyStandings(ctx context.Context, day model.Day) ([]ranking.ParticipantRanking, error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGetStandings handles GET /standings requests.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	standings, err := h.deps.Standings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleGetDailyStandings handles GET /standings/daily?date=YYYY-MM-DD.
func (h *StandingsHandler) HandleGetDailyStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_daily_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	day, err := parseDayParam(r, "date", "")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	standings, err := h.deps.DailyStandings(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
