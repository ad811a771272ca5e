// Package ranking turns per-player aggregates into participant standings.
package ranking

import (
	"context"
	"sort"

	"github.com/okian/shinny/internal/domain/aggregate"
	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/scoring"
)

// IgnoreCounts configures how many worst performers per position are
// excluded from a participant's totals.
type IgnoreCounts struct {
	Forwards  int `json:"forwards" koanf:"forwards"`
	Defenders int `json:"defenders" koanf:"defenders"`
	Goalies   int `json:"goalies" koanf:"goalies"`
}

// PositionTotals is one position bucket of a participant's ranking, sorted
// by pool points descending with the ignored tail marked.
type PositionTotals struct {
	Players []*aggregate.PlayerAggregate `json:"players"`
	// PoolPoints excludes ignored players' contributions.
	PoolPoints float64 `json:"pool_points"`
	// Games counts every player's games, ignored ones included. Ignoring
	// a performer drops their points, not the games they played.
	Games int `json:"number_of_games"`
}

// ParticipantRanking is the derived standing of one participant.
type ParticipantRanking struct {
	Rank          int            `json:"rank"`
	ParticipantID string         `json:"participant_id"`
	Forwards      PositionTotals `json:"forwards"`
	Defenders     PositionTotals `json:"defenders"`
	Goalies       PositionTotals `json:"goalies"`
	PoolPoints    float64        `json:"pool_points"`
	Games         int            `json:"number_of_games"`
}

// AveragePointsPerGame returns the participant's pool points per game. The
// second return is false when no games were played; there is no zero-division
// value to report.
func (r ParticipantRanking) AveragePointsPerGame() (float64, bool) {
	if r.Games == 0 {
		return 0, false
	}
	return r.PoolPoints / float64(r.Games), true
}

// Engine applies scoring rules and the ignore-worst rule to aggregates.
type Engine struct {
	rules  *scoring.Rules
	ignore IgnoreCounts
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithIgnoreCounts sets the per-position ignore-worst counts.
func WithIgnoreCounts(c IgnoreCounts) Option {
	return func(e *Engine) { e.ignore = c }
}

// NewEngine creates a ranking engine for the given coefficient table.
func NewEngine(rules *scoring.Rules, opts ...Option) *Engine {
	e := &Engine{rules: rules}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank computes pool points for every aggregate, applies the ignore-worst
// rule per bucket, and returns standings sorted by total pool points
// descending with participant id ascending as the deterministic tiebreaker.
//
// Buckets are annotated in place (points and ignored statuses); callers
// recompute aggregates per request, so nothing long-lived is mutated.
func (e *Engine) Rank(ctx context.Context, buckets map[string]*aggregate.Buckets) ([]ParticipantRanking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]ParticipantRanking, 0, len(buckets))
	for id, b := range buckets {
		r := ParticipantRanking{
			ParticipantID: id,
			Forwards:      e.rankBucket(b.Forwards, model.PositionForward, e.ignore.Forwards),
			Defenders:     e.rankBucket(b.Defenders, model.PositionDefense, e.ignore.Defenders),
			Goalies:       e.rankBucket(b.Goalies, model.PositionGoalie, e.ignore.Goalies),
		}
		r.PoolPoints = r.Forwards.PoolPoints + r.Defenders.PoolPoints + r.Goalies.PoolPoints
		r.Games = r.Forwards.Games + r.Defenders.Games + r.Goalies.Games
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PoolPoints != out[j].PoolPoints {
			return out[i].PoolPoints > out[j].PoolPoints
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// rankBucket scores and orders one position bucket and marks its ignored
// tail. The cut index is clamped so an ignore count larger than the bucket
// empties it instead of slicing out of range.
func (e *Engine) rankBucket(players []*aggregate.PlayerAggregate, pos model.Position, ignoreCount int) PositionTotals {
	for _, p := range players {
		if pos == model.PositionGoalie {
			p.PoolPoints = e.rules.GoaliePoints(p.Wins, p.Shutouts, p.OvertimeLosses, p.Goals, p.Assists)
		} else {
			p.PoolPoints = e.rules.SkaterPoints(pos, p.Goals, p.Assists, p.HatTricks, p.ShootoutGoals)
		}
	}

	// Stable keeps encounter order on equal points.
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].PoolPoints > players[j].PoolPoints
	})

	cut := len(players) - ignoreCount
	if cut < 0 {
		cut = 0
	}

	totals := PositionTotals{Players: players}
	for i, p := range players {
		totals.Games += p.Games
		if i < cut {
			totals.PoolPoints += p.PoolPoints
		} else {
			p.Status = model.StatusIgnored
		}
	}
	return totals
}
