package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func line(goals, assists int) *model.SkaterLine {
	return &model.SkaterLine{Goals: goals, Assists: assists}
}

func seedSeason(ctx context.Context, s *Service) error {
	if err := s.SetComposition(ctx, "alice", model.Composition{
		Forwards: []string{"f1"},
		Goalies:  []string{"g1"},
	}); err != nil {
		return err
	}
	if err := s.SetComposition(ctx, "bob", model.Composition{
		Forwards: []string{"f2"},
	}); err != nil {
		return err
	}
	return s.IngestSnapshot(ctx, model.DailySnapshot{
		Day:       "2026-01-01",
		Cumulated: true,
		Rosters: map[string]model.DailyRoster{
			"alice": {
				Forwards: map[string]*model.SkaterLine{"f1": line(2, 1)},
				Goalies:  map[string]*model.GoalieLine{"g1": {Win: true}},
			},
			"bob": {
				Forwards: map[string]*model.SkaterLine{"f2": line(0, 1)},
			},
		},
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(WithWorkerCount(2), WithQueueSize(64))

		Convey("When starting it", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then stats should report a started service", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
			})
		})
	})
}

func TestStandingsFlow(t *testing.T) {
	Convey("Given a started service with one cumulated day", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(WithWorkerCount(2))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(seedSeason(ctx, svc), ShouldBeNil)

		Convey("When reading standings", func() {
			standings, err := svc.Standings(ctx)

			Convey("Then alice should lead with 2G 1A plus the goalie win", func() {
				So(err, ShouldBeNil)
				So(len(standings), ShouldEqual, 2)
				So(standings[0].ParticipantID, ShouldEqual, "alice")
				// 2*2 + 1*1 = 5 skater points, +2 for the win.
				So(standings[0].PoolPoints, ShouldEqual, 7)
				So(standings[0].Rank, ShouldEqual, 1)
				So(standings[1].ParticipantID, ShouldEqual, "bob")
				So(standings[1].PoolPoints, ShouldEqual, 1)
			})
		})

		Convey("When reading standings repeatedly", func() {
			first, err1 := svc.Standings(ctx)
			second, err2 := svc.Standings(ctx)

			Convey("Then recomputation should be idempotent", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When asking for the season range", func() {
			from, to, err := svc.SeasonRange(ctx)

			Convey("Then it should span the single day", func() {
				So(err, ShouldBeNil)
				So(from, ShouldEqual, model.Day("2026-01-01"))
				So(to, ShouldEqual, model.Day("2026-01-01"))
			})
		})
	})
}

func TestDailyStandings(t *testing.T) {
	Convey("Given a started service with a live day", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(svc.SetComposition(ctx, "alice", model.Composition{Forwards: []string{"f1"}}), ShouldBeNil)
		So(svc.IngestSnapshot(ctx, model.DailySnapshot{
			Day:       "2026-01-02",
			Cumulated: false,
			Rosters: map[string]model.DailyRoster{
				"alice": {Forwards: map[string]*model.SkaterLine{"f1": nil}},
			},
		}), ShouldBeNil)
		svc.SetLeadersFeed(ctx, &model.LeadersFeed{
			Skaters: map[string]model.SkaterLine{"f1": {Goals: 1}},
		})

		Convey("When folding that day in isolation", func() {
			daily, err := svc.DailyStandings(ctx, "2026-01-02")

			Convey("Then the live feed should resolve the events", func() {
				So(err, ShouldBeNil)
				So(len(daily), ShouldEqual, 1)
				So(daily[0].PoolPoints, ShouldEqual, 2)
			})
		})

		Convey("When folding a day without a snapshot", func() {
			daily, err := svc.DailyStandings(ctx, "2026-03-01")

			Convey("Then buckets fold empty instead of erroring", func() {
				So(err, ShouldBeNil)
				So(len(daily), ShouldEqual, 1)
				So(daily[0].PoolPoints, ShouldEqual, 0)
			})
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given a started service with tight limits", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(
			WithWorkerCount(1),
			WithRosterLimits(model.RosterLimits{Forwards: 1, Defenders: 1, Goalies: 1, Reservists: 1}),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a composition exceeds the forward limit", func() {
			err := svc.SetComposition(ctx, "alice", model.Composition{Forwards: []string{"f1", "f2"}})
			So(errors.Is(err, ErrInvalidComposition), ShouldBeTrue)
		})

		Convey("When a composition lists a player twice", func() {
			err := svc.SetComposition(ctx, "alice", model.Composition{
				Forwards:   []string{"f1"},
				Reservists: []string{"f1"},
			})
			So(errors.Is(err, ErrInvalidComposition), ShouldBeTrue)
		})

		Convey("When a trade names only one side", func() {
			err := svc.RecordTrade(ctx, model.Trade{Proposer: "alice"})
			So(errors.Is(err, ErrInvalidTrade), ShouldBeTrue)
		})

		Convey("When a trade is self-dealing", func() {
			err := svc.RecordTrade(ctx, model.Trade{Proposer: "alice", Acceptor: "alice"})
			So(errors.Is(err, ErrInvalidTrade), ShouldBeTrue)
		})

		Convey("When a valid trade omits id and timestamp", func() {
			err := svc.RecordTrade(ctx, model.Trade{
				Proposer:   "alice",
				Acceptor:   "bob",
				ToProposer: []string{"p9"},
			})

			Convey("Then they should be filled in", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestDraftBoards(t *testing.T) {
	Convey("Given a started service with three participants", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(
			WithWorkerCount(1),
			WithRosterLimits(model.RosterLimits{Forwards: 1, Defenders: 1, Goalies: 1}),
			WithDynastySettings(model.DynastySettings{TradableRounds: 2, ProtectedPerSeason: 1}),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		for _, id := range []string{"alice", "bob", "carol"} {
			So(svc.SetComposition(ctx, id, model.Composition{}), ShouldBeNil)
		}

		Convey("When generating a fresh snake board", func() {
			board, err := svc.DraftBoard(ctx)

			Convey("Then every participant should end at the target", func() {
				So(err, ShouldBeNil)
				So(len(board.Rounds), ShouldEqual, 3)
				So(board.Picks["alice"], ShouldEqual, 3)
				So(board.Picks["bob"], ShouldEqual, 3)
				So(board.Picks["carol"], ShouldEqual, 3)

				// Snake: second round reverses the first.
				So(board.Rounds[1].Drafters[0], ShouldEqual, board.Rounds[0].Drafters[2])
			})
		})

		Convey("When generating a dynasty board", func() {
			So(svc.IngestSnapshot(ctx, model.DailySnapshot{
				Day:       "2026-01-01",
				Cumulated: true,
				Rosters:   map[string]model.DailyRoster{},
			}), ShouldBeNil)

			board, err := svc.DynastyDraftBoard(ctx, nil)

			Convey("Then the reduced target should apply to everyone", func() {
				So(err, ShouldBeNil)
				// Target 3 minus 1 protected.
				So(board.Picks["alice"], ShouldEqual, 2)
				So(board.Picks["bob"], ShouldEqual, 2)
				So(board.Picks["carol"], ShouldEqual, 2)
			})
		})
	})
}

func TestHistoryAndSeries(t *testing.T) {
	Convey("Given a started service with two snapshotted days", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := New(WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(svc.SetComposition(ctx, "alice", model.Composition{Forwards: []string{"f1", "f9"}}), ShouldBeNil)
		So(svc.IngestSnapshot(ctx, model.DailySnapshot{
			Day: "2026-01-01", Cumulated: true,
			Rosters: map[string]model.DailyRoster{
				"alice": {Forwards: map[string]*model.SkaterLine{"f1": line(1, 0), "f2": nil}},
			},
		}), ShouldBeNil)
		So(svc.IngestSnapshot(ctx, model.DailySnapshot{
			Day: "2026-01-02", Cumulated: true,
			Rosters: map[string]model.DailyRoster{
				"alice": {Forwards: map[string]*model.SkaterLine{"f1": line(0, 2), "f3": nil}},
			},
		}), ShouldBeNil)
		So(svc.RecordTrade(ctx, model.Trade{
			Proposer: "alice", Acceptor: "bob",
			AcceptedAt: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC),
		}), ShouldBeNil)

		Convey("When building the history", func() {
			entries, err := svc.History(ctx, "2026-01-01", "2026-01-02")

			Convey("Then the roster swap and trade should appear on day two", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThanOrEqualTo, 1)

				var found bool
				for _, e := range entries {
					if e.Day == "2026-01-02" {
						found = true
						So(len(e.Trades), ShouldEqual, 1)
						So(len(e.Movements), ShouldEqual, 1)
						So(e.Movements[0].Added, ShouldResemble, []string{"f3"})
						So(e.Movements[0].Removed, ShouldResemble, []string{"f2"})
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When building a player series", func() {
			points, err := svc.Series(ctx, "f1", "alice", "2026-01-01", "2026-01-02")

			Convey("Then counters should accumulate across days", func() {
				So(err, ShouldBeNil)
				So(len(points), ShouldEqual, 2)
				So(points[0].Goals, ShouldEqual, 1)
				So(points[1].Goals, ShouldEqual, 1)
				So(points[1].Assists, ShouldEqual, 2)
				// 1 goal * 2 + 2 assists * 1.
				So(points[1].PoolPoints, ShouldEqual, 4)
			})
		})
	})
}
