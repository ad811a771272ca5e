// Package scoring defines the pool-point coefficient tables and formulas.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/shinny/internal/domain/model"
)

// Default coefficient values, applied when no option overrides them.
const (
	defaultGoal         = 2.0
	defaultAssist       = 1.0
	defaultHatTrick     = 1.0
	defaultShootoutGoal = 0.5
	defaultWin          = 2.0
	defaultShutout      = 3.0
	defaultOvertimeLoss = 1.0
	defaultGoalieGoal   = 3.0
	defaultGoalieAssist = 1.0
)

// SkaterRules holds the coefficients applied to forward and defense events.
type SkaterRules struct {
	Goal         float64 `json:"goal" koanf:"goal"`
	Assist       float64 `json:"assist" koanf:"assist"`
	HatTrick     float64 `json:"hat_trick" koanf:"hat_trick"`
	ShootoutGoal float64 `json:"shootout_goal" koanf:"shootout_goal"`
}

// GoalieRules holds the coefficients applied to goalie events. Goalies score
// on decisions as well as the rare goal or assist.
type GoalieRules struct {
	Win          float64 `json:"win" koanf:"win"`
	Shutout      float64 `json:"shutout" koanf:"shutout"`
	OvertimeLoss float64 `json:"overtime_loss" koanf:"overtime_loss"`
	Goal         float64 `json:"goal" koanf:"goal"`
	Assist       float64 `json:"assist" koanf:"assist"`
}

// Rules is the validated coefficient table for one pool. Every field is
// mandatory and fixed at construction; the aggregation loops never consult
// fallbacks.
type Rules struct {
	forward SkaterRules
	defense SkaterRules
	goalie  GoalieRules
}

// Option applies a configuration option to Rules under construction.
type Option func(*Rules)

// WithForwardRules overrides the forward coefficient record.
func WithForwardRules(r SkaterRules) Option {
	return func(rules *Rules) { rules.forward = r }
}

// WithDefenseRules overrides the defense coefficient record.
func WithDefenseRules(r SkaterRules) Option {
	return func(rules *Rules) { rules.defense = r }
}

// WithGoalieRules overrides the goalie coefficient record.
func WithGoalieRules(r GoalieRules) Option {
	return func(rules *Rules) { rules.goalie = r }
}

// NewRules builds a coefficient table from defaults plus options and
// validates it. Validation happens once here so downstream folds can trust
// every coefficient.
func NewRules(opts ...Option) (*Rules, error) {
	r := &Rules{
		forward: SkaterRules{Goal: defaultGoal, Assist: defaultAssist, HatTrick: defaultHatTrick, ShootoutGoal: defaultShootoutGoal},
		defense: SkaterRules{Goal: defaultGoal, Assist: defaultAssist, HatTrick: defaultHatTrick, ShootoutGoal: defaultShootoutGoal},
		goalie:  GoalieRules{Win: defaultWin, Shutout: defaultShutout, OvertimeLoss: defaultOvertimeLoss, Goal: defaultGoalieGoal, Assist: defaultGoalieAssist},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) validate() error {
	coeffs := []float64{
		r.forward.Goal, r.forward.Assist, r.forward.HatTrick, r.forward.ShootoutGoal,
		r.defense.Goal, r.defense.Assist, r.defense.HatTrick, r.defense.ShootoutGoal,
		r.goalie.Win, r.goalie.Shutout, r.goalie.OvertimeLoss, r.goalie.Goal, r.goalie.Assist,
	}
	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: coefficient %v", ErrInvalidRules, c)
		}
	}
	return nil
}

// Skater returns the coefficient record for a skater position.
func (r *Rules) Skater(pos model.Position) SkaterRules {
	if pos == model.PositionDefense {
		return r.defense
	}
	return r.forward
}

// Goalie returns the goalie coefficient record.
func (r *Rules) Goalie() GoalieRules {
	return r.goalie
}

// SkaterPoints applies the linear skater formula for the given position.
// No rounding is performed; display formatting is the caller's concern.
func (r *Rules) SkaterPoints(pos model.Position, goals, assists, hatTricks, shootoutGoals int) float64 {
	c := r.Skater(pos)
	return float64(goals)*c.Goal +
		float64(assists)*c.Assist +
		float64(hatTricks)*c.HatTrick +
		float64(shootoutGoals)*c.ShootoutGoal
}

// GoaliePoints applies the linear goalie formula.
func (r *Rules) GoaliePoints(wins, shutouts, overtimeLosses, goals, assists int) float64 {
	return float64(wins)*r.goalie.Win +
		float64(shutouts)*r.goalie.Shutout +
		float64(overtimeLosses)*r.goalie.OvertimeLoss +
		float64(goals)*r.goalie.Goal +
		float64(assists)*r.goalie.Assist
}
