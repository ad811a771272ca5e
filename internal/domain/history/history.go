// Package history reconstructs roster movements from daily snapshots.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/okian/shinny/internal/domain/model"
)

// Movement is the roster delta of one participant on one day.
type Movement struct {
	ParticipantID string   `json:"participant_id"`
	Added         []string `json:"added"`
	Removed       []string `json:"removed"`
}

// Entry is one day of pool history: roster movements plus the trades
// accepted that day. Today marks the synthetic entry diffed against the
// live roster rather than a stored snapshot.
type Entry struct {
	Day       model.Day  `json:"date"`
	Today     bool       `json:"today"`
	Movements []Movement `json:"movements"`
	Trades    []model.Trade `json:"trades"`
}

// Input carries everything one reconstruction needs. Snapshots and the
// current compositions are read-only; nothing is cached between calls.
type Input struct {
	Snapshots    map[model.Day]*model.DailySnapshot
	Compositions map[string]model.Composition
	Trades       []model.Trade
	From, To     model.Day
}

// Reconstructor diffs successive daily rosters into movement events.
type Reconstructor struct {
	// loc buckets trade acceptance timestamps into calendar days.
	loc *time.Location
}

// Option applies a configuration option to the Reconstructor.
type Option func(*Reconstructor)

// WithLocation sets the timezone trades are day-bucketed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Reconstructor) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// New creates a Reconstructor.
func New(opts ...Option) *Reconstructor {
	r := &Reconstructor{loc: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build walks [From, To] ascending, diffing each participant's roster set
// against the previous known one, then adds a synthetic today entry against
// the live composition. The result is returned newest first.
func (r *Reconstructor) Build(ctx context.Context, in Input) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tradesByDay := r.bucketTrades(in.Trades)

	lastKnown := make(map[string]map[string]struct{})
	var entries []Entry

	for _, day := range model.Days(in.From, in.To) {
		var movements []Movement
		if snap := in.Snapshots[day]; snap != nil {
			for _, participantID := range sortedParticipants(snap.Rosters) {
				current := rosterSet(snap.Rosters[participantID])
				if prev, ok := lastKnown[participantID]; ok {
					if m, changed := diff(participantID, prev, current); changed {
						movements = append(movements, m)
					}
				}
				lastKnown[participantID] = current
			}
		}
		if len(movements) > 0 || len(tradesByDay[day]) > 0 {
			entries = append(entries, Entry{
				Day:       day,
				Movements: movements,
				Trades:    tradesByDay[day],
			})
		}
	}

	// Surface in-flight changes not yet snapshotted.
	if today := r.todayEntry(lastKnown, in.Compositions); today != nil {
		entries = append(entries, *today)
	}

	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// todayEntry diffs the last snapshotted rosters against the live
// compositions (active plus reservists).
func (r *Reconstructor) todayEntry(lastKnown map[string]map[string]struct{}, comps map[string]model.Composition) *Entry {
	ids := make([]string, 0, len(comps))
	for id := range comps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var movements []Movement
	for _, participantID := range ids {
		prev, ok := lastKnown[participantID]
		if !ok {
			continue
		}
		current := compositionSet(comps[participantID])
		if m, changed := diff(participantID, prev, current); changed {
			movements = append(movements, m)
		}
	}
	if len(movements) == 0 {
		return nil
	}
	return &Entry{Today: true, Movements: movements}
}

// bucketTrades groups accepted trades by the calendar day of acceptance in
// the configured timezone.
func (r *Reconstructor) bucketTrades(trades []model.Trade) map[model.Day][]model.Trade {
	out := make(map[model.Day][]model.Trade)
	for _, t := range trades {
		day := model.NewDay(t.AcceptedAt.In(r.loc))
		out[day] = append(out[day], t)
	}
	return out
}

// diff computes added and removed sets; changed is false when both are empty.
func diff(participantID string, prev, current map[string]struct{}) (Movement, bool) {
	m := Movement{ParticipantID: participantID}
	for id := range current {
		if _, ok := prev[id]; !ok {
			m.Added = append(m.Added, id)
		}
	}
	for id := range prev {
		if _, ok := current[id]; !ok {
			m.Removed = append(m.Removed, id)
		}
	}
	sort.Strings(m.Added)
	sort.Strings(m.Removed)
	return m, len(m.Added) > 0 || len(m.Removed) > 0
}

// rosterSet collects every player id present in a day's roster maps.
func rosterSet(roster model.DailyRoster) map[string]struct{} {
	set := make(map[string]struct{}, len(roster.Forwards)+len(roster.Defenders)+len(roster.Goalies))
	for id := range roster.Forwards {
		set[id] = struct{}{}
	}
	for id := range roster.Defenders {
		set[id] = struct{}{}
	}
	for id := range roster.Goalies {
		set[id] = struct{}{}
	}
	return set
}

// compositionSet collects the live roster, reservists included.
func compositionSet(c model.Composition) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range [][]string{c.Forwards, c.Defenders, c.Goalies, c.Reservists} {
		for _, id := range list {
			set[id] = struct{}{}
		}
	}
	return set
}

func sortedParticipants(rosters map[string]model.DailyRoster) []string {
	ids := make([]string, 0, len(rosters))
	for id := range rosters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
