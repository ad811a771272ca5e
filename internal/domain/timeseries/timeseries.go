// Package timeseries produces running cumulative series for player charts.
package timeseries

import (
	"context"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/scoring"
)

// Point is the cumulative state of one player after one day. InRoster is
// false on days the participant's snapshot did not list the player, which
// charts use to shade inactive periods.
type Point struct {
	Day            model.Day `json:"date"`
	Games          int       `json:"number_of_games"`
	Goals          int       `json:"goals"`
	Assists        int       `json:"assists"`
	HatTricks      int       `json:"hat_tricks"`
	ShootoutGoals  int       `json:"shootout_goals"`
	Wins           int       `json:"wins"`
	Shutouts       int       `json:"shutouts"`
	OvertimeLosses int       `json:"overtime_losses"`
	PoolPoints     float64   `json:"pool_points"`
	InRoster       bool      `json:"is_in_roster"`
}

// Input scopes one series request to a single player and participant.
type Input struct {
	PlayerID      string
	ParticipantID string
	Snapshots     map[model.Day]*model.DailySnapshot
	From, To      model.Day
}

// Accumulator folds one player's daily lines into a running series.
type Accumulator struct {
	rules *scoring.Rules
}

// New creates an Accumulator using the pool's coefficient table.
func New(rules *scoring.Rules) *Accumulator {
	return &Accumulator{rules: rules}
}

// Series walks [From, To] ascending and emits one point per day that has a
// snapshot. Days without a snapshot are skipped entirely, so the output may
// have calendar gaps; consumers interpolate, the engine does not.
func (a *Accumulator) Series(ctx context.Context, in Input) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		out     []Point
		running Point
		// pos is latched the first time the player shows up in a bucket
		// so points keep the right formula through off-roster gaps.
		pos = model.PositionForward
	)

	for _, day := range model.Days(in.From, in.To) {
		snap := in.Snapshots[day]
		if snap == nil {
			continue
		}

		point := running
		point.Day = day
		point.InRoster = false

		roster, ok := snap.Rosters[in.ParticipantID]
		if ok {
			if line, bucket, listed := lookupSkater(roster, in.PlayerID); listed {
				point.InRoster = true
				pos = bucket
				if line != nil {
					point.Games++
					point.Goals += line.Goals
					point.Assists += line.Assists
					point.ShootoutGoals += line.ShootoutGoals
					if line.Goals >= 3 {
						point.HatTricks++
					}
				}
			} else if gline, listed := roster.Goalies[in.PlayerID]; listed {
				point.InRoster = true
				pos = model.PositionGoalie
				if gline != nil {
					point.Games++
					point.Goals += gline.Goals
					point.Assists += gline.Assists
					if gline.Win {
						point.Wins++
					}
					if gline.Shutout {
						point.Shutouts++
					}
					if gline.OvertimeLoss {
						point.OvertimeLosses++
					}
				}
			}
		}

		if pos == model.PositionGoalie {
			point.PoolPoints = a.rules.GoaliePoints(point.Wins, point.Shutouts, point.OvertimeLosses, point.Goals, point.Assists)
		} else {
			point.PoolPoints = a.rules.SkaterPoints(pos, point.Goals, point.Assists, point.HatTricks, point.ShootoutGoals)
		}
		running = point
		out = append(out, point)
	}
	return out, nil
}

func lookupSkater(roster model.DailyRoster, id string) (*model.SkaterLine, model.Position, bool) {
	if line, ok := roster.Forwards[id]; ok {
		return line, model.PositionForward, true
	}
	if line, ok := roster.Defenders[id]; ok {
		return line, model.PositionDefense, true
	}
	return nil, "", false
}
