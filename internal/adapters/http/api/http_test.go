package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/shinny/internal/domain/draft"
	"github.com/okian/shinny/internal/domain/history"
	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/internal/domain/timeseries"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps records calls and returns canned values.
type stubDeps struct {
	snapshots    []model.DailySnapshot
	compositions map[string]model.Composition
	trades       []model.Trade
	feed         *model.LeadersFeed
	players      []model.Player

	standings []ranking.ParticipantRanking
	board     *draft.Board
	entries   []history.Entry
	points    []timeseries.Point

	compositionErr error
	noSeason       bool
}

func newStubDeps() *stubDeps {
	return &stubDeps{
		compositions: make(map[string]model.Composition),
		standings: []ranking.ParticipantRanking{
			{Rank: 1, ParticipantID: "alice", PoolPoints: 10},
		},
		board: &draft.Board{
			Rounds: []draft.Round{{Number: 1, Drafters: []string{"alice", "bob"}}},
			Picks:  map[string]int{"alice": 1, "bob": 1},
		},
	}
}

func (d *stubDeps) IngestSnapshot(_ context.Context, snap model.DailySnapshot) error {
	if _, err := model.ParseDay(string(snap.Day)); err != nil {
		return err
	}
	d.snapshots = append(d.snapshots, snap)
	return nil
}

func (d *stubDeps) SetComposition(_ context.Context, id string, c model.Composition) error {
	if d.compositionErr != nil {
		return d.compositionErr
	}
	d.compositions[id] = c
	return nil
}

func (d *stubDeps) RecordTrade(_ context.Context, t model.Trade) error {
	if t.Proposer == "" || t.Acceptor == "" {
		return errors.New("both sides must be named")
	}
	d.trades = append(d.trades, t)
	return nil
}

func (d *stubDeps) SetLeadersFeed(_ context.Context, feed *model.LeadersFeed) { d.feed = feed }

func (d *stubDeps) RegisterPlayers(_ context.Context, players []model.Player) {
	d.players = append(d.players, players...)
}

func (d *stubDeps) Standings(_ context.Context) ([]ranking.ParticipantRanking, error) {
	return d.standings, nil
}

func (d *stubDeps) DailyStandings(_ context.Context, _ model.Day) ([]ranking.ParticipantRanking, error) {
	return d.standings, nil
}

func (d *stubDeps) DraftBoard(_ context.Context) (*draft.Board, error) { return d.board, nil }

func (d *stubDeps) DynastyDraftBoard(_ context.Context, _ model.TradedPicks) (*draft.Board, error) {
	return d.board, nil
}

func (d *stubDeps) History(_ context.Context, _, _ model.Day) ([]history.Entry, error) {
	return d.entries, nil
}

func (d *stubDeps) Series(_ context.Context, _, _ string, _, _ model.Day) ([]timeseries.Point, error) {
	return d.points, nil
}

func (d *stubDeps) SeasonRange(_ context.Context) (model.Day, model.Day, error) {
	if d.noSeason {
		return "", "", errors.New("no snapshots ingested yet")
	}
	return "2026-01-01", "2026-04-15", nil
}

func (d *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	NewServer(deps, deps).Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSnapshotIngestion(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When posting a valid snapshot", func() {
			rec := doJSON(mux, http.MethodPost, "/snapshots", model.DailySnapshot{
				Day: "2026-01-05", Cumulated: true,
			})

			Convey("Then it should be accepted", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(len(deps.snapshots), ShouldEqual, 1)
			})
		})

		Convey("When posting a snapshot without a date", func() {
			rec := doJSON(mux, http.MethodPost, "/snapshots", map[string]any{"is_cumulated": true})

			Convey("Then it should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/snapshots", strings.NewReader("{"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			rec := doJSON(mux, http.MethodGet, "/snapshots", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When putting a roster", func() {
			rec := doJSON(mux, http.MethodPut, "/rosters/alice", model.Composition{
				Forwards: []string{"f1", "f2"},
			})

			Convey("Then the composition should be stored", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.compositions["alice"].Forwards, ShouldResemble, []string{"f1", "f2"})
			})
		})

		Convey("When the participant id is missing", func() {
			rec := doJSON(mux, http.MethodPut, "/rosters/", model.Composition{})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service rejects the composition", func() {
			deps.compositionErr = errors.New("too many forwards")
			rec := doJSON(mux, http.MethodPut, "/rosters/alice", model.Composition{})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When registering players", func() {
			rec := doJSON(mux, http.MethodPost, "/players", []model.Player{
				{ID: "p1", Name: "One", Position: model.PositionGoalie},
			})

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(len(deps.players), ShouldEqual, 1)
		})
	})
}

func TestTradeEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When posting a valid trade", func() {
			rec := doJSON(mux, http.MethodPost, "/trades", model.Trade{
				Proposer: "alice", Acceptor: "bob", ToAcceptor: []string{"f1"},
			})

			So(rec.Code, ShouldEqual, http.StatusAccepted)
			So(len(deps.trades), ShouldEqual, 1)
		})

		Convey("When posting a one-sided trade", func() {
			rec := doJSON(mux, http.MethodPost, "/trades", model.Trade{Proposer: "alice"})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When fetching standings", func() {
			rec := doJSON(mux, http.MethodGet, "/standings", nil)

			Convey("Then the canned standings should come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got []ranking.ParticipantRanking
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].ParticipantID, ShouldEqual, "alice")
			})
		})

		Convey("When fetching daily standings without a date", func() {
			rec := doJSON(mux, http.MethodGet, "/standings/daily", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching daily standings with a bad date", func() {
			rec := doJSON(mux, http.MethodGet, "/standings/daily?date=tomorrow", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching daily standings with a valid date", func() {
			rec := doJSON(mux, http.MethodGet, "/standings/daily?date=2026-01-05", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching the draft board", func() {
			rec := doJSON(mux, http.MethodGet, "/draft", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When posting a dynasty draft request", func() {
			rec := doJSON(mux, http.MethodPost, "/draft/dynasty", dynastyDraftRequest{
				TradedPicks: model.TradedPicks{{"alice": "bob"}},
			})
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching history with default bounds", func() {
			rec := doJSON(mux, http.MethodGet, "/history", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching history before any snapshot exists", func() {
			deps.noSeason = true
			rec := doJSON(mux, http.MethodGet, "/history", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When fetching a series without required params", func() {
			rec := doJSON(mux, http.MethodGet, "/series?player=f1", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching a series with full params", func() {
			rec := doJSON(mux, http.MethodGet, "/series?player=f1&participant=alice&from=2026-01-01&to=2026-01-31", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching stats", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "started")
		})

		Convey("When scraping the health endpoint", func() {
			rec := doJSON(mux, http.MethodGet, "/healthz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
