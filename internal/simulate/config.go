// Package simulate generates a synthetic pool season and drives a running
// service over HTTP, then verifies the standings it computed.
package simulate

import "time"

// Config holds simulation parameters.
type Config struct {
	// BaseURL of the running service.
	BaseURL string
	// Participants is how many pool members to simulate.
	Participants int
	// ForwardsPerTeam, DefendersPerTeam and GoaliesPerTeam shape each
	// participant's active roster.
	ForwardsPerTeam  int
	DefendersPerTeam int
	GoaliesPerTeam   int
	// Days is the number of season days to snapshot.
	Days int
	// Trades is how many random trades to record along the way.
	Trades int
	// StartDay anchors the season, YYYY-MM-DD.
	StartDay string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// Verbose enables per-day logging.
	Verbose bool
}

// Stats collects the outcome of one simulation run.
type Stats struct {
	PlayersRegistered int
	RostersPosted     int
	SnapshotsPosted   int
	TradesPosted      int
	Failed            int

	StandingsFetched bool
	Verified         bool

	Duration time.Duration
}
