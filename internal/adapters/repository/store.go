// Package repository defines the pool state store interface and errors.
package repository

import (
	"context"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
)

// Store provides read/write access to the pool state: daily snapshots,
// roster compositions, accepted trades and the cached standings.
type Store interface {
	// PutSnapshot stores or replaces the snapshot for its day.
	PutSnapshot(ctx context.Context, snap model.DailySnapshot) error
	// Snapshot returns the snapshot for a day.
	// Returns ErrNotFound if the day has no snapshot.
	Snapshot(ctx context.Context, day model.Day) (model.DailySnapshot, error)
	// Days returns every day with a stored snapshot, ascending.
	Days(ctx context.Context) ([]model.Day, error)

	// PutComposition stores or replaces a participant's current lineup.
	PutComposition(ctx context.Context, participantID string, c model.Composition) error
	// Composition returns one participant's current lineup.
	// Returns ErrNotFound for unknown participants.
	Composition(ctx context.Context, participantID string) (model.Composition, error)
	// Compositions returns every participant's current lineup.
	Compositions(ctx context.Context) (map[string]model.Composition, error)

	// PutTrade appends an accepted trade.
	PutTrade(ctx context.Context, t model.Trade) error
	// Trades returns all accepted trades in insertion order.
	Trades(ctx context.Context) ([]model.Trade, error)

	// PutStandings replaces the cached standings.
	PutStandings(ctx context.Context, standings []ranking.ParticipantRanking) error
	// Standings returns the cached standings.
	// Returns ErrNotFound before the first recompute completes.
	Standings(ctx context.Context) ([]ranking.ParticipantRanking, error)

	// Participants returns the number of participants with a composition.
	Participants(ctx context.Context) int
}
