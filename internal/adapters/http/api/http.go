// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/shinny/internal/domain/draft"
	"github.com/okian/shinny/internal/domain/history"
	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/internal/domain/timeseries"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Write operations ingest pool state.
	IngestSnapshot(ctx context.Context, snap model.DailySnapshot) error
	SetComposition(ctx context.Context, participantID string, c model.Composition) error
	RecordTrade(ctx context.Context, t model.Trade) error
	SetLeadersFeed(ctx context.Context, feed *model.LeadersFeed)
	RegisterPlayers(ctx context.Context, players []model.Player)

	// Read operations expose derived pool data.
	Standings(ctx context.Context) ([]ranking.ParticipantRanking, error)
	DailyStandings(ctx context.Context, day model.Day) ([]ranking.ParticipantRanking, error)
	DraftBoard(ctx context.Context) (*draft.Board, error)
	DynastyDraftBoard(ctx context.Context, traded model.TradedPicks) (*draft.Board, error)
	History(ctx context.Context, from, to model.Day) ([]history.Entry, error)
	Series(ctx context.Context, playerID, participantID string, from, to model.Day) ([]timeseries.Point, error)
	SeasonRange(ctx context.Context) (model.Day, model.Day, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	snapshotsHandler *SnapshotsHandler
	rostersHandler   *RostersHandler
	tradesHandler    *TradesHandler
	standingsHandler *StandingsHandler
	draftHandler     *DraftHandler
	historyHandler   *HistoryHandler
	seriesHandler    *SeriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		snapshotsHandler: NewSnapshotsHandler(deps),
		rostersHandler:   NewRostersHandler(deps),
		tradesHandler:    NewTradesHandler(deps),
		standingsHandler: NewStandingsHandler(deps),
		draftHandler:     NewDraftHandler(deps),
		historyHandler:   NewHistoryHandler(deps),
		seriesHandler:    NewSeriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshots", MetricsMiddleware(s.snapshotsHandler.HandlePostSnapshot, "snapshots"))
	mux.HandleFunc("/feed", MetricsMiddleware(s.snapshotsHandler.HandlePutFeed, "feed"))
	mux.HandleFunc("/players", MetricsMiddleware(s.rostersHandler.HandlePostPlayers, "players"))
	mux.HandleFunc("/rosters/", MetricsMiddleware(s.rostersHandler.HandlePutRoster, "rosters"))
	mux.HandleFunc("/trades", MetricsMiddleware(s.tradesHandler.HandlePostTrade, "trades"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/standings/daily", MetricsMiddleware(s.standingsHandler.HandleGetDailyStandings, "standings_daily"))
	mux.HandleFunc("/draft", MetricsMiddleware(s.draftHandler.HandleGetDraft, "draft"))
	mux.HandleFunc("/draft/dynasty", MetricsMiddleware(s.draftHandler.HandlePostDynastyDraft, "draft_dynasty"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/series", MetricsMiddleware(s.seriesHandler.HandleGetSeries, "series"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseDayParam reads an optional YYYY-MM-DD query parameter, falling back
// to def when absent.
func parseDayParam(r *http.Request, key string, def model.Day) (model.Day, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		if def != "" {
			return def, nil
		}
		return "", errors.New("missing " + key)
	}
	return model.ParseDay(raw)
}
