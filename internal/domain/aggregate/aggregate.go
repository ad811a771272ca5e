// Package aggregate folds daily event records into per-player totals.
//
// The fold is pure: all inputs arrive materialized, nothing is mutated, and
// every recomputation starts from zero. Correctness relies on deterministic
// recomputation rather than incremental state.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/status"
)

// PlayerAggregate is the cumulative line for one (participant, player) pair
// over the folded range. Counters stay raw; pool points are applied later by
// the ranking engine so coefficient changes never drift into stored sums.
type PlayerAggregate struct {
	PlayerID string         `json:"player_id"`
	Position model.Position `json:"position"`
	Status   model.Status   `json:"status"`

	Games          int `json:"number_of_games"`
	Goals          int `json:"goals"`
	Assists        int `json:"assists"`
	HatTricks      int `json:"hat_tricks"`
	ShootoutGoals  int `json:"shootout_goals"`
	Wins           int `json:"wins"`
	Shutouts       int `json:"shutouts"`
	OvertimeLosses int `json:"overtime_losses"`

	// PoolPoints is filled in by the ranking engine after the fold.
	PoolPoints float64 `json:"pool_points"`
}

// Buckets holds one participant's aggregates split by position, in
// encounter order within each bucket.
type Buckets struct {
	ParticipantID string
	Forwards      []*PlayerAggregate
	Defenders     []*PlayerAggregate
	Goalies       []*PlayerAggregate

	index map[bucketKey]*PlayerAggregate
}

type bucketKey struct {
	pos model.Position
	id  string
}

func newBuckets(participantID string) *Buckets {
	return &Buckets{
		ParticipantID: participantID,
		index:         make(map[bucketKey]*PlayerAggregate),
	}
}

// Bucket returns the aggregate slice for a position.
func (b *Buckets) Bucket(pos model.Position) []*PlayerAggregate {
	switch pos {
	case model.PositionForward:
		return b.Forwards
	case model.PositionDefense:
		return b.Defenders
	case model.PositionGoalie:
		return b.Goalies
	}
	return nil
}

// Find returns the aggregate for a (position, player) pair, or nil.
func (b *Buckets) Find(pos model.Position, playerID string) *PlayerAggregate {
	return b.index[bucketKey{pos: pos, id: playerID}]
}

// ensure returns the existing aggregate or appends a fresh one classified
// against the current composition.
func (b *Buckets) ensure(pos model.Position, playerID string, comp model.Composition) *PlayerAggregate {
	key := bucketKey{pos: pos, id: playerID}
	if agg, ok := b.index[key]; ok {
		return agg
	}
	agg := &PlayerAggregate{
		PlayerID: playerID,
		Position: pos,
		Status:   status.Classify(playerID, comp),
	}
	b.index[key] = agg
	switch pos {
	case model.PositionForward:
		b.Forwards = append(b.Forwards, agg)
	case model.PositionDefense:
		b.Defenders = append(b.Defenders, agg)
	case model.PositionGoalie:
		b.Goalies = append(b.Goalies, agg)
	}
	return agg
}

// RangeInput feeds the cumulative fold over [From, To] inclusive.
type RangeInput struct {
	Snapshots    map[model.Day]*model.DailySnapshot
	Feed         *model.LeadersFeed // event source for non-cumulated days
	Compositions map[string]model.Composition
	From, To     model.Day
}

// DayInput feeds the single-day fold.
type DayInput struct {
	Snapshot     *model.DailySnapshot
	Feed         *model.LeadersFeed
	Compositions map[string]model.Composition
}

// Aggregator folds snapshots into per-participant buckets.
type Aggregator struct {
	players map[string]model.Player
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithPlayerDirectory supplies player identities, used to seed reservists
// into the correct position bucket before any event is observed.
func WithPlayerDirectory(players map[string]model.Player) Option {
	return func(a *Aggregator) {
		a.players = players
	}
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Cumulative folds every day in [From, To] and returns buckets keyed by
// participant id. Days with no snapshot carry no games and are skipped.
// Participants fold independently and concurrently; results merge
// deterministically because each goroutine owns its own slot.
func (a *Aggregator) Cumulative(ctx context.Context, in RangeInput) (map[string]*Buckets, error) {
	days := model.Days(in.From, in.To)

	ids := make([]string, 0, len(in.Compositions))
	for id := range in.Compositions {
		ids = append(ids, id)
	}

	results := make([]*Buckets, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = a.foldParticipant(ctx, id, in.Compositions[id], days, in.Snapshots, in.Feed)
		}(i, id)
	}
	wg.Wait()

	out := make(map[string]*Buckets, len(ids))
	for i, id := range ids {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out[id] = results[i]
	}
	return out, nil
}

// Daily folds a single day. Unlike the range fold, a rostered player absent
// from the live feed is surfaced as "did not play" with a zeroed aggregate
// instead of being omitted.
func (a *Aggregator) Daily(ctx context.Context, in DayInput) (map[string]*Buckets, error) {
	out := make(map[string]*Buckets, len(in.Compositions))
	for id, comp := range in.Compositions {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("daily fold canceled: %w", err)
		}
		b := newBuckets(id)
		a.seed(b, comp)
		if in.Snapshot != nil {
			if roster, ok := in.Snapshot.Rosters[id]; ok {
				if err := foldDay(b, comp, roster, in.Snapshot.Cumulated, in.Feed, true); err != nil {
					return nil, fmt.Errorf("day %s participant %s: %w", in.Snapshot.Day, id, err)
				}
			}
		}
		out[id] = b
	}
	return out, nil
}

func (a *Aggregator) foldParticipant(ctx context.Context, participantID string, comp model.Composition, days []model.Day, snapshots map[model.Day]*model.DailySnapshot, feed *model.LeadersFeed) (*Buckets, error) {
	b := newBuckets(participantID)
	a.seed(b, comp)

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("range fold canceled: %w", err)
		}
		snap := snapshots[day]
		if snap == nil {
			// No snapshot means no games were recorded that day,
			// not a day of zeroes.
			continue
		}
		roster, ok := snap.Rosters[participantID]
		if !ok {
			continue
		}
		if err := foldDay(b, comp, roster, snap.Cumulated, feed, false); err != nil {
			return nil, fmt.Errorf("day %s participant %s: %w", day, participantID, err)
		}
	}
	return b, nil
}

// seed creates zeroed aggregates for the current active and reserve rosters
// so participants with quiet players still render full buckets.
func (a *Aggregator) seed(b *Buckets, comp model.Composition) {
	for _, id := range comp.Forwards {
		b.ensure(model.PositionForward, id, comp)
	}
	for _, id := range comp.Defenders {
		b.ensure(model.PositionDefense, id, comp)
	}
	for _, id := range comp.Goalies {
		b.ensure(model.PositionGoalie, id, comp)
	}
	for _, id := range comp.Reservists {
		// Reservist lists carry no position; the directory resolves it.
		p, ok := a.players[id]
		if !ok {
			continue
		}
		b.ensure(p.Position, id, comp)
	}
}

// foldDay adds one day of one participant's roster into the buckets.
// zeroFill controls the daily-variant behavior for live days: rostered
// players missing from the feed become zeroed did-not-play aggregates.
func foldDay(b *Buckets, comp model.Composition, roster model.DailyRoster, cumulated bool, feed *model.LeadersFeed, zeroFill bool) error {
	seen := make(map[string]model.Position)

	mark := func(pos model.Position, id string) error {
		if prev, ok := seen[id]; ok && prev != pos {
			return fmt.Errorf("%w: player %s in buckets %s and %s", ErrDuplicatePlayer, id, prev, pos)
		}
		seen[id] = pos
		return nil
	}

	for _, pos := range []model.Position{model.PositionForward, model.PositionDefense} {
		lines := roster.Forwards
		if pos == model.PositionDefense {
			lines = roster.Defenders
		}
		for _, id := range sortedKeys(lines) {
			line := lines[id]
			if err := mark(pos, id); err != nil {
				return err
			}
			resolved := line
			if !cumulated {
				resolved = nil
				if feed != nil {
					if fl, ok := feed.Skaters[id]; ok {
						cp := fl
						resolved = &cp
					}
				}
			}
			if resolved == nil {
				if zeroFill {
					b.ensure(pos, id, comp)
				}
				continue
			}
			agg := b.ensure(pos, id, comp)
			agg.Games++
			agg.Goals += resolved.Goals
			agg.Assists += resolved.Assists
			agg.ShootoutGoals += resolved.ShootoutGoals
			if resolved.Goals >= hatTrickGoals {
				agg.HatTricks++
			}
		}
	}

	for _, id := range sortedKeys(roster.Goalies) {
		line := roster.Goalies[id]
		if err := mark(model.PositionGoalie, id); err != nil {
			return err
		}
		resolved := line
		if !cumulated {
			resolved = nil
			if feed != nil {
				if fl, ok := feed.Goalies[id]; ok {
					cp := fl
					resolved = &cp
				}
			}
		}
		if resolved == nil {
			if zeroFill {
				b.ensure(model.PositionGoalie, id, comp)
			}
			continue
		}
		agg := b.ensure(model.PositionGoalie, id, comp)
		agg.Games++
		agg.Goals += resolved.Goals
		agg.Assists += resolved.Assists
		if resolved.Win {
			agg.Wins++
		}
		if resolved.Shutout {
			agg.Shutouts++
		}
		if resolved.OvertimeLoss {
			agg.OvertimeLosses++
		}
	}

	return nil
}

// hatTrickGoals is the goal count that credits a hat trick.
const hatTrickGoals = 3

// sortedKeys keeps encounter order deterministic regardless of map layout,
// which the idempotence guarantee depends on.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
