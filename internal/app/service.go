// Package service provides the core pool service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	jobqueue "github.com/okian/shinny/internal/adapters/mq/queue"
	workerpool "github.com/okian/shinny/internal/adapters/mq/worker"
	"github.com/okian/shinny/internal/adapters/repository"
	"github.com/okian/shinny/internal/domain/aggregate"
	"github.com/okian/shinny/internal/domain/coalesce"
	"github.com/okian/shinny/internal/domain/draft"
	"github.com/okian/shinny/internal/domain/history"
	"github.com/okian/shinny/internal/domain/model"
	"github.com/okian/shinny/internal/domain/ranking"
	"github.com/okian/shinny/internal/domain/scoring"
	"github.com/okian/shinny/internal/domain/timeseries"
	"github.com/okian/shinny/pkg/logger"
	"github.com/okian/shinny/pkg/metrics"
)

// standingsKey is the single coalescing key: every trigger invalidates the
// same season-wide standings, so one in-flight recompute covers them all.
const standingsKey = "standings"

// Service implements the API dependencies for the pool system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	tracker  coalesce.Tracker
	jobQueue jobqueue.Queue
	pool     *workerpool.Pool

	// Engines
	rules         *scoring.Rules
	ranker        *ranking.Engine
	aggregator    *aggregate.Aggregator
	reconstructor *history.Reconstructor
	accumulator   *timeseries.Accumulator

	// Configuration
	workerCount int
	queueSize   int
	loc         *time.Location
	draftMode   draft.Mode
	limits      model.RosterLimits
	ignore      ranking.IgnoreCounts
	dynasty     model.DynastySettings

	// Player directory for reservist bucket resolution.
	players map[string]model.Player

	// Live event source for non-cumulated days.
	liveFeed *model.LeadersFeed

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScoringRules sets the coefficient table used for pool points.
func WithScoringRules(r *scoring.Rules) Option {
	return func(s *Service) {
		if r != nil {
			s.rules = r
		}
	}
}

// WithRosterLimits bounds lineup sizes per position.
func WithRosterLimits(l model.RosterLimits) Option {
	return func(s *Service) {
		if l.Total() > 0 {
			s.limits = l
		}
	}
}

// WithIgnoreCounts sets the per-position ignore-worst counts.
func WithIgnoreCounts(c ranking.IgnoreCounts) Option {
	return func(s *Service) {
		s.ignore = c
	}
}

// WithDynastySettings configures the multi-season variant.
func WithDynastySettings(d model.DynastySettings) Option {
	return func(s *Service) {
		s.dynasty = d
	}
}

// WithDraftMode selects standard or snake ordering for fresh drafts.
func WithDraftMode(m draft.Mode) Option {
	return func(s *Service) {
		if m == draft.ModeStandard || m == draft.ModeSnake {
			s.draftMode = m
		}
	}
}

// WithLocation sets the timezone trades are day-bucketed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithStore injects a pre-built store, mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPlayerDirectory seeds the player identity directory.
func WithPlayerDirectory(players map[string]model.Player) Option {
	return func(s *Service) {
		s.players = players
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		loc:         time.UTC,
		draftMode:   draft.ModeSnake,
		limits: model.RosterLimits{
			Forwards: 9, Defenders: 6, Goalies: 2, Reservists: 4,
		},
		ignore:  ranking.IgnoreCounts{Forwards: 2, Defenders: 1},
		dynasty: model.DynastySettings{TradableRounds: 4, ProtectedPerSeason: 10},
		players: make(map[string]model.Player),
		stopCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting pool service...")

	if s.rules == nil {
		rules, err := scoring.NewRules()
		if err != nil {
			return fmt.Errorf("default scoring rules: %w", err)
		}
		s.rules = rules
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.tracker = coalesce.NewInMemoryTracker()
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.aggregator = aggregate.New(aggregate.WithPlayerDirectory(s.players))
	s.ranker = ranking.NewEngine(s.rules, ranking.WithIgnoreCounts(s.ignore))
	s.reconstructor = history.New(history.WithLocation(s.loc))
	s.accumulator = timeseries.New(s.rules)

	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "pool service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("timezone", s.loc.String()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping pool service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "pool service stopped")
}

// IngestSnapshot stores a daily snapshot and schedules a recompute.
func (s *Service) IngestSnapshot(ctx context.Context, snap model.DailySnapshot) error {
	if err := s.store.PutSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("ingest snapshot %s: %w", snap.Day, err)
	}
	metrics.RecordSnapshotIngested()
	s.scheduleRecompute(ctx, jobqueue.TriggerSnapshot, string(snap.Day))
	return nil
}

// SetComposition replaces a participant's lineup and schedules a recompute.
func (s *Service) SetComposition(ctx context.Context, participantID string, c model.Composition) error {
	if participantID == "" {
		return fmt.Errorf("%w: empty participant id", ErrInvalidComposition)
	}
	if err := s.validateComposition(c); err != nil {
		return err
	}
	if err := s.store.PutComposition(ctx, participantID, c); err != nil {
		return fmt.Errorf("set composition for %s: %w", participantID, err)
	}
	metrics.RecordRosterUpdated()
	s.scheduleRecompute(ctx, jobqueue.TriggerRoster, "")
	return nil
}

func (s *Service) validateComposition(c model.Composition) error {
	if len(c.Forwards) > s.limits.Forwards {
		return fmt.Errorf("%w: %d forwards exceeds limit %d", ErrInvalidComposition, len(c.Forwards), s.limits.Forwards)
	}
	if len(c.Defenders) > s.limits.Defenders {
		return fmt.Errorf("%w: %d defenders exceeds limit %d", ErrInvalidComposition, len(c.Defenders), s.limits.Defenders)
	}
	if len(c.Goalies) > s.limits.Goalies {
		return fmt.Errorf("%w: %d goalies exceeds limit %d", ErrInvalidComposition, len(c.Goalies), s.limits.Goalies)
	}
	if len(c.Reservists) > s.limits.Reservists {
		return fmt.Errorf("%w: %d reservists exceeds limit %d", ErrInvalidComposition, len(c.Reservists), s.limits.Reservists)
	}
	seen := make(map[string]struct{})
	for _, list := range [][]string{c.Forwards, c.Defenders, c.Goalies, c.Reservists} {
		for _, id := range list {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: player %s listed twice", ErrInvalidComposition, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// RecordTrade stores an accepted trade and schedules a recompute.
func (s *Service) RecordTrade(ctx context.Context, t model.Trade) error {
	if t.Proposer == "" || t.Acceptor == "" {
		return fmt.Errorf("%w: both sides must be named", ErrInvalidTrade)
	}
	if t.Proposer == t.Acceptor {
		return fmt.Errorf("%w: participant %s trading with themselves", ErrInvalidTrade, t.Proposer)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.AcceptedAt.IsZero() {
		t.AcceptedAt = time.Now()
	}
	if err := s.store.PutTrade(ctx, t); err != nil {
		return fmt.Errorf("record trade %s: %w", t.ID, err)
	}
	metrics.RecordTradeRecorded()
	s.scheduleRecompute(ctx, jobqueue.TriggerTrade, "")
	return nil
}

// SetLeadersFeed replaces the live event source for non-cumulated days and
// schedules a recompute.
func (s *Service) SetLeadersFeed(ctx context.Context, feed *model.LeadersFeed) {
	s.mu.Lock()
	s.liveFeed = feed
	s.mu.Unlock()
	s.scheduleRecompute(ctx, jobqueue.TriggerManual, "")
}

// RegisterPlayers merges players into the identity directory.
func (s *Service) RegisterPlayers(_ context.Context, players []model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		s.players[p.ID] = p
	}
}

// scheduleRecompute claims the standings key and enqueues a job; triggers
// arriving while a recompute is pending fold into the in-flight run.
func (s *Service) scheduleRecompute(ctx context.Context, trigger, day string) {
	if !s.tracker.Begin(ctx, standingsKey) {
		metrics.RecordRecomputeCoalesced()
		return
	}
	s.enqueue(ctx, trigger, day)
}

func (s *Service) enqueue(ctx context.Context, trigger, day string) {
	job := jobqueue.Job{
		ID:         uuid.NewString(),
		Trigger:    trigger,
		Day:        day,
		EnqueuedAt: time.Now(),
	}
	if !s.jobQueue.Enqueue(ctx, job) {
		// Release the claim so the next trigger can retry.
		s.tracker.Finish(ctx, standingsKey)
		s.logger.Warn(ctx, "recompute job dropped, queue full",
			logger.String("trigger", trigger),
		)
	}
}

// Recompute rebuilds the season standings from scratch and caches them.
// It implements worker.Computer.
func (s *Service) Recompute(ctx context.Context, job workerpool.Job) error {
	err := s.recomputeOnce(ctx)

	// A trigger may have landed while this run was folding; run once more
	// for it instead of once per trigger.
	if s.tracker.Finish(ctx, standingsKey) {
		s.enqueue(ctx, job.Trigger, job.Day)
	}
	return err
}

func (s *Service) recomputeOnce(ctx context.Context) error {
	standings, err := s.computeStandings(ctx)
	if err != nil {
		return err
	}
	if err := s.store.PutStandings(ctx, standings); err != nil {
		return fmt.Errorf("cache standings: %w", err)
	}
	return nil
}

// computeStandings folds every stored day into fresh standings.
func (s *Service) computeStandings(ctx context.Context) ([]ranking.ParticipantRanking, error) {
	days, err := s.store.Days(ctx)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	comps, err := s.store.Compositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	if len(days) == 0 || len(comps) == 0 {
		return []ranking.ParticipantRanking{}, nil
	}

	snapshots := make(map[model.Day]*model.DailySnapshot, len(days))
	for _, day := range days {
		snap, err := s.store.Snapshot(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", day, err)
		}
		cp := snap
		snapshots[day] = &cp
	}

	s.mu.RLock()
	feed := s.liveFeed
	s.mu.RUnlock()

	buckets, err := s.aggregator.Cumulative(ctx, aggregate.RangeInput{
		Snapshots:    snapshots,
		Feed:         feed,
		Compositions: comps,
		From:         days[0],
		To:           days[len(days)-1],
	})
	if err != nil {
		return nil, fmt.Errorf("cumulative fold: %w", err)
	}

	standings, err := s.ranker.Rank(ctx, buckets)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return standings, nil
}

// Standings returns the season standings, computing them synchronously when
// no cached result exists yet.
func (s *Service) Standings(ctx context.Context) ([]ranking.ParticipantRanking, error) {
	standings, err := s.store.Standings(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		standings, err = s.computeStandings(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store.PutStandings(ctx, standings); err != nil {
			return nil, fmt.Errorf("cache standings: %w", err)
		}
	}
	metrics.RecordStandingsServed()
	return standings, nil
}

// DailyStandings folds a single day and ranks it in isolation. Rostered
// players without events that day surface as did-not-play zero lines.
func (s *Service) DailyStandings(ctx context.Context, day model.Day) ([]ranking.ParticipantRanking, error) {
	comps, err := s.store.Compositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}

	var snapPtr *model.DailySnapshot
	snap, err := s.store.Snapshot(ctx, day)
	switch {
	case err == nil:
		snapPtr = &snap
	case errors.Is(err, repository.ErrNotFound):
		// No snapshot: every bucket folds empty.
	default:
		return nil, err
	}

	s.mu.RLock()
	feed := s.liveFeed
	s.mu.RUnlock()

	buckets, err := s.aggregator.Daily(ctx, aggregate.DayInput{
		Snapshot:     snapPtr,
		Feed:         feed,
		Compositions: comps,
	})
	if err != nil {
		return nil, fmt.Errorf("daily fold: %w", err)
	}
	return s.ranker.Rank(ctx, buckets)
}

// DraftBoard generates the pick order for a fresh draft in the configured
// mode.
func (s *Service) DraftBoard(ctx context.Context) (*draft.Board, error) {
	participants, err := s.participantIDs(ctx)
	if err != nil {
		return nil, err
	}
	gen, err := draft.NewGenerator(participants, s.limits.Total(), draft.WithMode(s.draftMode))
	if err != nil {
		return nil, err
	}
	return gen.Board(ctx)
}

// DynastyDraftBoard generates the next season's pick order from the final
// standings, honoring traded picks. The per-season target shrinks by the
// protected player count.
func (s *Service) DynastyDraftBoard(ctx context.Context, traded model.TradedPicks) (*draft.Board, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	if len(standings) == 0 {
		return nil, fmt.Errorf("%w: standings required for dynasty ordering", ErrNoSeason)
	}

	order := make([]string, len(standings))
	for i, r := range standings {
		order[i] = r.ParticipantID
	}

	target := s.limits.Total() - s.dynasty.ProtectedPerSeason
	if target < 1 {
		return nil, fmt.Errorf("%w: protected count %d leaves no picks", draft.ErrInvalidDraft, s.dynasty.ProtectedPerSeason)
	}
	if len(traded) > s.dynasty.TradableRounds {
		traded = traded[:s.dynasty.TradableRounds]
	}

	gen, err := draft.NewGenerator(order, target, draft.WithDynasty(order, traded))
	if err != nil {
		return nil, err
	}
	return gen.Board(ctx)
}

// History reconstructs roster movements and trades over [from, to].
func (s *Service) History(ctx context.Context, from, to model.Day) ([]history.Entry, error) {
	snapshots, err := s.loadSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	comps, err := s.store.Compositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	trades, err := s.store.Trades(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return s.reconstructor.Build(ctx, history.Input{
		Snapshots:    snapshots,
		Compositions: comps,
		Trades:       trades,
		From:         from,
		To:           to,
	})
}

// Series produces the running cumulative chart series for one player on one
// participant's roster.
func (s *Service) Series(ctx context.Context, playerID, participantID string, from, to model.Day) ([]timeseries.Point, error) {
	snapshots, err := s.loadSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	return s.accumulator.Series(ctx, timeseries.Input{
		PlayerID:      playerID,
		ParticipantID: participantID,
		Snapshots:     snapshots,
		From:          from,
		To:            to,
	})
}

// SeasonRange returns the first and last snapshotted days.
func (s *Service) SeasonRange(ctx context.Context) (model.Day, model.Day, error) {
	days, err := s.store.Days(ctx)
	if err != nil {
		return "", "", err
	}
	if len(days) == 0 {
		return "", "", ErrNoSeason
	}
	return days[0], days[len(days)-1], nil
}

func (s *Service) participantIDs(ctx context.Context) ([]string, error) {
	comps, err := s.store.Compositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrNoSeason)
	}
	ids := make([]string, 0, len(comps))
	for id := range comps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Service) loadSnapshots(ctx context.Context) (map[model.Day]*model.DailySnapshot, error) {
	days, err := s.store.Days(ctx)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	out := make(map[model.Day]*model.DailySnapshot, len(days))
	for _, day := range days {
		snap, err := s.store.Snapshot(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", day, err)
		}
		cp := snap
		out[day] = &cp
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"timezone":    s.loc.String(),
		"draftMode":   string(s.draftMode),
	}

	if s.started {
		stats["queueLength"] = s.jobQueue.Len(ctx)
		stats["participants"] = s.store.Participants(ctx)
		stats["pendingRecomputes"] = s.tracker.Size()
	}

	return stats
}
