package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/pkg/metrics"
)

// MemStore is an in-memory Store guarded by a single RWMutex. Pools are
// small (a handful of participants, one snapshot per day) so contention is
// not a concern; correctness under concurrent ingest and recompute is.
type MemStore struct {
	mu           sync.RWMutex
	snapshots    map[model.Day]model.DailySnapshot
	compositions map[string]model.Composition
	trades       []model.Trade
	standings    []ranking.ParticipantRanking
	hasStandings bool
}

// compile-time interface check
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		snapshots:    make(map[model.Day]model.DailySnapshot),
		compositions: make(map[string]model.Composition),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutSnapshot stores or replaces the snapshot for its day.
func (s *MemStore) PutSnapshot(ctx context.Context, snap model.DailySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := model.ParseDay(string(snap.Day)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	s.mu.Lock()
	s.snapshots[snap.Day] = snap
	days := len(s.snapshots)
	s.mu.Unlock()

	metrics.UpdateSnapshotDays(days)
	return nil
}

// Snapshot returns the snapshot for a day.
func (s *MemStore) Snapshot(ctx context.Context, day model.Day) (model.DailySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.DailySnapshot{}, err
	}

	s.mu.RLock()
	snap, ok := s.snapshots[day]
	s.mu.RUnlock()

	if !ok {
		return model.DailySnapshot{}, fmt.Errorf("%w: snapshot %s", ErrNotFound, day)
	}
	return snap, nil
}

// Days returns every day with a stored snapshot, ascending.
func (s *MemStore) Days(ctx context.Context) ([]model.Day, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	days := make([]model.Day, 0, len(s.snapshots))
	for d := range s.snapshots {
		days = append(days, d)
	}
	s.mu.RUnlock()

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// PutComposition stores or replaces a participant's current lineup.
func (s *MemStore) PutComposition(ctx context.Context, participantID string, c model.Composition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.compositions[participantID] = c
	n := len(s.compositions)
	s.mu.Unlock()

	metrics.UpdateParticipants(n)
	return nil
}

// Composition returns one participant's current lineup.
func (s *MemStore) Composition(ctx context.Context, participantID string) (model.Composition, error) {
	if err := ctx.Err(); err != nil {
		return model.Composition{}, err
	}

	s.mu.RLock()
	c, ok := s.compositions[participantID]
	s.mu.RUnlock()

	if !ok {
		return model.Composition{}, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	return c, nil
}

// Compositions returns a copy of every participant's current lineup.
func (s *MemStore) Compositions(ctx context.Context) (map[string]model.Composition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make(map[string]model.Composition, len(s.compositions))
	for id, c := range s.compositions {
		out[id] = c
	}
	s.mu.RUnlock()

	return out, nil
}

// PutTrade appends an accepted trade.
func (s *MemStore) PutTrade(ctx context.Context, t model.Trade) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.trades = append(s.trades, t)
	s.mu.Unlock()

	return nil
}

// Trades returns a copy of all accepted trades in insertion order.
func (s *MemStore) Trades(ctx context.Context) ([]model.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]model.Trade, len(s.trades))
	copy(out, s.trades)
	s.mu.RUnlock()

	return out, nil
}

// PutStandings replaces the cached standings.
func (s *MemStore) PutStandings(ctx context.Context, standings []ranking.ParticipantRanking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.standings = standings
	s.hasStandings = true
	s.mu.Unlock()

	return nil
}

// Standings returns the cached standings.
func (s *MemStore) Standings(ctx context.Context) ([]ranking.ParticipantRanking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasStandings {
		return nil, fmt.Errorf("%w: standings not computed yet", ErrNotFound)
	}
	out := make([]ranking.ParticipantRanking, len(s.standings))
	copy(out, s.standings)
	return out, nil
}

// Participants returns the number of participants with a composition.
func (s *MemStore) Participants(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.compositions)
}
