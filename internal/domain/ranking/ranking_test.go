package ranking_test

import (
	"context"
	"testing"

	aggregate "github.com/okian/shinny/internal/domain/aggregate"
	"github.com/okian/shinny/internal/domain/model"
	ranking "github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func mustRules() *scoring.Rules {
	rules, err := scoring.NewRules(
		scoring.WithForwardRules(scoring.SkaterRules{Goal: 1, Assist: 1}),
		scoring.WithDefenseRules(scoring.SkaterRules{Goal: 1, Assist: 1}),
		scoring.WithGoalieRules(scoring.GoalieRules{Win: 1}),
	)
	if err != nil {
		panic(err)
	}
	return rules
}

// forwardBuckets builds a participant with forwards carrying the given goal
// counts (one pool point each under mustRules).
func forwardBuckets(ctx context.Context, participantID string, goals ...int) *aggregate.Buckets {
	comp := model.Composition{}
	snapshots := map[model.Day]*model.DailySnapshot{
		"2024-01-01": {Day: "2024-01-01", Cumulated: true, Rosters: map[string]model.DailyRoster{
			participantID: {Forwards: map[string]*model.SkaterLine{}},
		}},
	}
	roster := snapshots["2024-01-01"].Rosters[participantID]
	for i, g := range goals {
		id := string(rune('a' + i))
		roster.Forwards[id] = &model.SkaterLine{Goals: g}
	}
	out, err := aggregate.New().Cumulative(ctx, aggregate.RangeInput{
		Snapshots:    snapshots,
		Compositions: map[string]model.Composition{participantID: comp},
		From:         "2024-01-01",
		To:           "2024-01-01",
	})
	if err != nil {
		panic(err)
	}
	return out[participantID]
}

func TestIgnoreWorstRule(t *testing.T) {
	ctx := context.Background()

	Convey("Given a participant with forwards scoring 10, 7 and 3", t, func() {
		buckets := map[string]*aggregate.Buckets{
			"alice": forwardBuckets(ctx, "alice", 10, 7, 3),
		}

		Convey("When ranking with a forward ignore count of 1", func() {
			engine := ranking.NewEngine(mustRules(), ranking.WithIgnoreCounts(ranking.IgnoreCounts{Forwards: 1}))
			out, err := engine.Rank(ctx, buckets)
			So(err, ShouldBeNil)

			Convey("Then the worst forward should be dropped from the total", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Forwards.PoolPoints, ShouldEqual, 17.0)
				So(out[0].PoolPoints, ShouldEqual, 17.0)
			})

			Convey("Then the dropped player should be marked ignored", func() {
				players := out[0].Forwards.Players
				So(players[len(players)-1].PoolPoints, ShouldEqual, 3.0)
				So(players[len(players)-1].Status, ShouldEqual, model.StatusIgnored)
				So(players[0].Status, ShouldNotEqual, model.StatusIgnored)
			})

			Convey("Then games played should still count the ignored player", func() {
				So(out[0].Forwards.Games, ShouldEqual, 3)
			})
		})

		Convey("When the ignore count exceeds the bucket size", func() {
			engine := ranking.NewEngine(mustRules(), ranking.WithIgnoreCounts(ranking.IgnoreCounts{Forwards: 5}))
			out, err := engine.Rank(ctx, buckets)
			So(err, ShouldBeNil)

			Convey("Then the bucket total clamps to zero without panicking", func() {
				So(out[0].Forwards.PoolPoints, ShouldEqual, 0.0)
				for _, p := range out[0].Forwards.Players {
					So(p.Status, ShouldEqual, model.StatusIgnored)
				}
			})
		})
	})
}

func TestConservation(t *testing.T) {
	ctx := context.Background()

	Convey("Given ranked standings", t, func() {
		engine := ranking.NewEngine(mustRules(), ranking.WithIgnoreCounts(ranking.IgnoreCounts{Forwards: 1}))
		buckets := map[string]*aggregate.Buckets{
			"alice": forwardBuckets(ctx, "alice", 4, 2, 9),
		}
		out, err := engine.Rank(ctx, buckets)
		So(err, ShouldBeNil)

		Convey("Then the total should equal the sum over non-ignored players", func() {
			var sum float64
			for _, p := range out[0].Forwards.Players {
				if p.Status != model.StatusIgnored {
					sum += p.PoolPoints
				}
			}
			So(out[0].PoolPoints, ShouldEqual, sum)
		})
	})
}

func TestFinalOrdering(t *testing.T) {
	ctx := context.Background()

	Convey("Given three participants", t, func() {
		engine := ranking.NewEngine(mustRules())
		buckets := map[string]*aggregate.Buckets{
			"carol": forwardBuckets(ctx, "carol", 5),
			"bob":   forwardBuckets(ctx, "bob", 8),
			"alice": forwardBuckets(ctx, "alice", 5),
		}

		Convey("When ranking", func() {
			out, err := engine.Rank(ctx, buckets)
			So(err, ShouldBeNil)

			Convey("Then order is points descending, participant id ascending on ties", func() {
				So(out[0].ParticipantID, ShouldEqual, "bob")
				So(out[1].ParticipantID, ShouldEqual, "alice")
				So(out[2].ParticipantID, ShouldEqual, "carol")
				So(out[0].Rank, ShouldEqual, 1)
				So(out[2].Rank, ShouldEqual, 3)
			})
		})
	})
}

func TestAveragePointsPerGame(t *testing.T) {
	Convey("Given a participant ranking", t, func() {
		Convey("When games were played", func() {
			r := ranking.ParticipantRanking{PoolPoints: 12, Games: 4}
			avg, ok := r.AveragePointsPerGame()
			So(ok, ShouldBeTrue)
			So(avg, ShouldEqual, 3.0)
		})

		Convey("When no games were played", func() {
			r := ranking.ParticipantRanking{PoolPoints: 0, Games: 0}
			_, ok := r.AveragePointsPerGame()
			So(ok, ShouldBeFalse)
		})
	})
}
