// Command season-sim generates a synthetic season and replays it against a
// running instance, then verifies the standings the service computed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/shinny/internal/simulate"
	"github.com/okian/shinny/pkg/logger"
)

func main() {
	var (
		url          = flag.String("url", "http://localhost:9080", "base URL of the service")
		participants = flag.Int("participants", 8, "number of pool members")
		forwards     = flag.Int("forwards", 9, "forwards per roster")
		defenders    = flag.Int("defenders", 6, "defensemen per roster")
		goalies      = flag.Int("goalies", 2, "goalies per roster")
		days         = flag.Int("days", 30, "season days to snapshot")
		trades       = flag.Int("trades", 3, "random trades to record")
		startDay     = flag.String("start", "2026-01-01", "first season day, YYYY-MM-DD")
		timeout      = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		verbose      = flag.Bool("verbose", false, "log every snapshot")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &simulate.Config{
		BaseURL:          *url,
		Participants:     *participants,
		ForwardsPerTeam:  *forwards,
		DefendersPerTeam: *defenders,
		GoaliesPerTeam:   *goalies,
		Days:             *days,
		Trades:           *trades,
		StartDay:         *startDay,
		Timeout:          *timeout,
		Verbose:          *verbose,
	}

	stats, err := simulate.Run(ctx, cfg)
	if stats != nil {
		fmt.Printf("players=%d rosters=%d snapshots=%d trades=%d failed=%d verified=%t took=%s\n",
			stats.PlayersRegistered, stats.RostersPosted, stats.SnapshotsPosted,
			stats.TradesPosted, stats.Failed, stats.Verified, stats.Duration.Round(time.Millisecond))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "simulation failed:", err)
		os.Exit(1)
	}
}
