// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and SHINNY_ env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/internal/domain/scoring"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RecomputeQueueSize bounds the in-memory recompute job queue.
	RecomputeQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// Timezone is the IANA zone trades are day-bucketed in.
	Timezone string `koanf:"timezone"`

	// DraftMode selects the pick-order shape: standard or snake.
	DraftMode string `koanf:"draft_mode"`

	// Scoring carries the pool-point coefficient tables per position.
	Scoring ScoringConfig `koanf:"scoring"`

	// Limits bounds the lineup sizes per position.
	Limits model.RosterLimits `koanf:"limits"`

	// Ignore sets how many worst scorers per bucket are dropped
	// from each participant's total.
	Ignore ranking.IgnoreCounts `koanf:"ignore"`

	// Dynasty configures the multi-season pool variant.
	Dynasty model.DynastySettings `koanf:"dynasty"`
}

// ScoringConfig groups the coefficient records loaded from file or env.
type ScoringConfig struct {
	Forward scoring.SkaterRules `koanf:"forward"`
	Defense scoring.SkaterRules `koanf:"defense"`
	Goalie  scoring.GoalieRules `koanf:"goalie"`
}

// New creates a Config populated with defaults. The coefficient defaults
// match scoring.NewRules so a zero-config process scores identically to a
// bare Rules table.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		RecomputeQueueSize: 10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		Timezone:           "UTC",
		DraftMode:          "snake",
		Scoring: ScoringConfig{
			Forward: scoring.SkaterRules{Goal: 2, Assist: 1, HatTrick: 1, ShootoutGoal: 0.5},
			Defense: scoring.SkaterRules{Goal: 2, Assist: 1, HatTrick: 1, ShootoutGoal: 0.5},
			Goalie:  scoring.GoalieRules{Win: 2, Shutout: 3, OvertimeLoss: 1, Goal: 3, Assist: 1},
		},
		Limits: model.RosterLimits{
			Forwards:   9,
			Defenders:  6,
			Goalies:    2,
			Reservists: 4,
		},
		Ignore: ranking.IgnoreCounts{
			Forwards:  2,
			Defenders: 1,
			Goalies:   0,
		},
		Dynasty: model.DynastySettings{
			TradableRounds:     4,
			ProtectedPerSeason: 10,
		},
	}
}

// Rules builds a validated scoring table from the loaded coefficients.
func (c *Config) Rules() (*scoring.Rules, error) {
	return scoring.NewRules(
		scoring.WithForwardRules(c.Scoring.Forward),
		scoring.WithDefenseRules(c.Scoring.Defense),
		scoring.WithGoalieRules(c.Scoring.Goalie),
	)
}
