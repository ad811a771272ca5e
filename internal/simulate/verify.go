package simulate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/pkg/logger"
)

const (
	verifyAttempts = 10
	verifyInterval = 500 * time.Millisecond
	pointsEpsilon  = 1e-9
)

// verifyStandings polls the standings endpoint until the recompute pipeline
// has settled, then checks structural invariants of the result.
func verifyStandings(ctx context.Context, client *Client, cfg *Config) error {
	log := logger.Get().Named("simulate")

	var standings []ranking.ParticipantRanking
	var lastErr error
	for attempt := 0; attempt < verifyAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(verifyInterval):
			}
		}
		if err := client.getJSON(ctx, "/standings", &standings); err != nil {
			lastErr = err
			continue
		}
		if len(standings) == cfg.Participants {
			lastErr = nil
			break
		}
		lastErr = fmt.Errorf("%w: %d participants ranked, want %d",
			ErrVerification, len(standings), cfg.Participants)
	}
	if lastErr != nil {
		return lastErr
	}

	if err := checkStandings(standings); err != nil {
		return err
	}

	leader := standings[0]
	log.Info(ctx, "standings verified",
		logger.Int("participants", len(standings)),
		logger.String("leader", leader.ParticipantID),
		logger.Float64("leader_points", leader.PoolPoints))
	return nil
}

// checkStandings asserts rank contiguity, point ordering, and that each
// participant's total equals the sum of its position buckets.
func checkStandings(standings []ranking.ParticipantRanking) error {
	for i, r := range standings {
		if r.Rank != i+1 {
			return fmt.Errorf("%w: rank %d at index %d", ErrVerification, r.Rank, i)
		}
		if i > 0 && r.PoolPoints > standings[i-1].PoolPoints+pointsEpsilon {
			return fmt.Errorf("%w: %s at rank %d outscores rank %d",
				ErrVerification, r.ParticipantID, r.Rank, standings[i-1].Rank)
		}

		bucketPoints := r.Forwards.PoolPoints + r.Defenders.PoolPoints + r.Goalies.PoolPoints
		if math.Abs(bucketPoints-r.PoolPoints) > pointsEpsilon {
			return fmt.Errorf("%w: %s bucket points %.2f do not sum to total %.2f",
				ErrVerification, r.ParticipantID, bucketPoints, r.PoolPoints)
		}

		bucketGames := r.Forwards.Games + r.Defenders.Games + r.Goalies.Games
		if bucketGames != r.Games {
			return fmt.Errorf("%w: %s bucket games %d do not sum to total %d",
				ErrVerification, r.ParticipantID, bucketGames, r.Games)
		}
	}
	return nil
}
