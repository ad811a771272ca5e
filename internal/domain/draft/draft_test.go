package draft_test

import (
	"context"
	"errors"
	"testing"

	draft "github.com/okian/shinny/internal/domain/draft"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFreshDraft(t *testing.T) {
	ctx := context.Background()
	participants := []string{"alice", "bob", "carol"}

	Convey("Given a fresh snake draft with 3 participants and 4 picks each", t, func() {
		g, err := draft.NewGenerator(participants, 4, draft.WithMode(draft.ModeSnake))
		So(err, ShouldBeNil)

		Convey("When generating the board", func() {
			board, err := g.Board(ctx)
			So(err, ShouldBeNil)

			Convey("Then it should produce exactly P*K slots", func() {
				So(board.Slots(), ShouldHaveLength, 12)
				for _, id := range participants {
					So(board.Picks[id], ShouldEqual, 4)
				}
			})

			Convey("Then round 2 should be round 1 reversed", func() {
				r1 := board.Rounds[0].Drafters
				r2 := board.Rounds[1].Drafters
				So(r2, ShouldResemble, []string{r1[2], r1[1], r1[0]})
			})

			Convey("Then odd and even rounds should alternate direction", func() {
				So(board.Rounds[0].Drafters, ShouldResemble, participants)
				So(board.Rounds[2].Drafters, ShouldResemble, participants)
			})

			Convey("Then the current drafter should follow the flattened order", func() {
				d, ok := board.Drafter(0)
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, "alice")
				d, ok = board.Drafter(3)
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, "carol") // first pick of the reversed round

				_, ok = board.Drafter(12)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a fresh standard draft", t, func() {
		g, err := draft.NewGenerator(participants, 2)
		So(err, ShouldBeNil)

		Convey("When generating the board", func() {
			board, err := g.Board(ctx)
			So(err, ShouldBeNil)

			Convey("Then every round should keep list order", func() {
				So(board.Rounds[0].Drafters, ShouldResemble, participants)
				So(board.Rounds[1].Drafters, ShouldResemble, participants)
			})
		})
	})

	Convey("Given invalid configuration", t, func() {
		Convey("When the participant list is empty", func() {
			_, err := draft.NewGenerator(nil, 3)
			So(errors.Is(err, draft.ErrInvalidDraft), ShouldBeTrue)
		})

		Convey("When the target is zero", func() {
			_, err := draft.NewGenerator(participants, 0)
			So(errors.Is(err, draft.ErrInvalidDraft), ShouldBeTrue)
		})
	})
}

func TestDynastyDraft(t *testing.T) {
	ctx := context.Background()
	participants := []string{"alice", "bob", "carol"}
	// Final standings best first: carol won the pool, alice finished last.
	standings := []string{"carol", "bob", "alice"}

	Convey("Given a dynasty draft with a traded round-1 pick", t, func() {
		// bob's round-1 pick now belongs to carol.
		traded := []map[string]string{{"bob": "carol"}}
		g, err := draft.NewGenerator(participants, 2, draft.WithDynasty(standings, traded))
		So(err, ShouldBeNil)

		Convey("When generating the board", func() {
			board, err := g.Board(ctx)
			So(err, ShouldBeNil)

			Convey("Then the worst record picks first", func() {
				So(board.Rounds[0].Drafters[0], ShouldEqual, "alice")
			})

			Convey("Then bob's nominal slot records carol as the drafter", func() {
				So(board.Rounds[0].Drafters, ShouldResemble, []string{"alice", "carol", "carol"})
			})

			Convey("Then pick counts accrue to the actual drafter", func() {
				// carol fills up in round 1; she takes no slot afterwards.
				So(board.Rounds[1].Drafters, ShouldResemble, []string{"alice", "bob"})
				So(board.Rounds[2].Drafters, ShouldResemble, []string{"bob"})
				for _, id := range participants {
					So(board.Picks[id], ShouldEqual, 2)
				}
				So(board.Slots(), ShouldHaveLength, 6)
			})
		})
	})

	Convey("Given a traded pick naming an unknown owner", t, func() {
		traded := []map[string]string{{"bob": "mallory"}}
		g, err := draft.NewGenerator(participants, 2, draft.WithDynasty(standings, traded))
		So(err, ShouldBeNil)

		Convey("When generating the board", func() {
			_, err := g.Board(ctx)

			Convey("Then it should fail hard instead of skipping", func() {
				So(errors.Is(err, draft.ErrUnknownPickOwner), ShouldBeTrue)
			})
		})
	})

	Convey("Given standings that do not cover the pool", t, func() {
		_, err := draft.NewGenerator(participants, 2, draft.WithDynasty([]string{"carol"}, nil))

		Convey("Then construction should fail", func() {
			So(errors.Is(err, draft.ErrInvalidDraft), ShouldBeTrue)
		})
	})

	Convey("Given a pick table that starves a participant", t, func() {
		// Every round redirects everyone's pick to carol.
		traded := []map[string]string{
			{"alice": "carol", "bob": "carol", "carol": "carol"},
			{"alice": "carol", "bob": "carol", "carol": "carol"},
			{"alice": "carol", "bob": "carol", "carol": "carol"},
		}
		g, err := draft.NewGenerator(participants, 1, draft.WithDynasty(standings, traded))
		So(err, ShouldBeNil)

		Convey("When generating the board", func() {
			_, err := g.Board(ctx)

			Convey("Then the stall should surface as an error", func() {
				So(errors.Is(err, draft.ErrStalledDraft), ShouldBeTrue)
			})
		})
	})
}
