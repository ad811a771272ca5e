package simulate

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/pkg/logger"
)

const snapshotWorkers = 4

// Run generates a season, pushes it to the service, and verifies the
// standings the service computed from it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	log := logger.Get().Named("simulate")
	start := time.Now()
	stats := &Stats{}

	season, err := generateSeason(cfg)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "season generated",
		logger.Int("participants", cfg.Participants),
		logger.Int("players", len(season.Players)),
		logger.Int("days", len(season.Snapshots)),
		logger.Int("trades", len(season.Trades)))

	client := NewClient(cfg)

	if err := client.sendJSON(ctx, http.MethodPost, "/players", season.Players); err != nil {
		return stats, err
	}
	stats.PlayersRegistered = len(season.Players)

	for participantID, comp := range season.Compositions {
		if err := client.sendJSON(ctx, http.MethodPut, "/rosters/"+participantID, comp); err != nil {
			return stats, err
		}
		stats.RostersPosted++
	}

	posted, failed := pushSnapshots(ctx, client, cfg, season.Snapshots)
	stats.SnapshotsPosted = posted
	stats.Failed += failed

	for _, trade := range season.Trades {
		if err := client.sendJSON(ctx, http.MethodPost, "/trades", trade); err != nil {
			log.Warn(ctx, "trade rejected", logger.Error(err))
			stats.Failed++
			continue
		}
		stats.TradesPosted++
	}

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d submissions failed", ErrRequestFailed, stats.Failed)
	}

	if err := verifyStandings(ctx, client, cfg); err != nil {
		stats.StandingsFetched = true
		stats.Duration = time.Since(start)
		return stats, err
	}
	stats.StandingsFetched = true
	stats.Verified = true
	stats.Duration = time.Since(start)

	log.Info(ctx, "simulation complete",
		logger.Int("snapshots", stats.SnapshotsPosted),
		logger.Int("trades", stats.TradesPosted),
		logger.Duration("took", stats.Duration))
	return stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: base url required", ErrInvalidSimConfig)
	case cfg.Participants < 1:
		return fmt.Errorf("%w: participants must be positive", ErrInvalidSimConfig)
	case cfg.Days < 1:
		return fmt.Errorf("%w: days must be positive", ErrInvalidSimConfig)
	case cfg.ForwardsPerTeam+cfg.DefendersPerTeam+cfg.GoaliesPerTeam < 1:
		return fmt.Errorf("%w: roster shape is empty", ErrInvalidSimConfig)
	}
	if _, err := model.ParseDay(cfg.StartDay); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSimConfig, err)
	}
	return nil
}

// pushSnapshots submits snapshots concurrently. Each snapshot is a full-day
// replacement, so submission order does not matter.
func pushSnapshots(ctx context.Context, client *Client, cfg *Config, snapshots []model.DailySnapshot) (int, int) {
	log := logger.Get().Named("simulate")

	var posted, failed atomic.Int64
	jobs := make(chan model.DailySnapshot)
	var wg sync.WaitGroup

	for w := 0; w < snapshotWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range jobs {
				if err := client.sendJSON(ctx, http.MethodPost, "/snapshots", snap); err != nil {
					log.Warn(ctx, "snapshot rejected", logger.String("day", string(snap.Day)), logger.Error(err))
					failed.Add(1)
					continue
				}
				if cfg.Verbose {
					log.Debug(ctx, "snapshot posted", logger.String("day", string(snap.Day)))
				}
				posted.Add(1)
			}
		}()
	}

	for _, snap := range snapshots {
		jobs <- snap
	}
	close(jobs)
	wg.Wait()

	return int(posted.Load()), int(failed.Load())
}
