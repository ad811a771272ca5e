// Package draft generates pick order for fresh and dynasty drafts.
package draft

import (
	"context"
	"fmt"
)

// Mode selects the round ordering strategy for fresh drafts.
type Mode string

// Draft modes. Dynasty ordering is driven by final standings and is chosen
// through WithDynasty rather than a mode value.
const (
	ModeStandard Mode = "standard"
	ModeSnake    Mode = "snake"
)

// Round is one ordered pass over the drafters. With dynasty pick trades a
// round can hold fewer slots than participants: drafters already at their
// target stop occupying slots.
type Round struct {
	Number   int      `json:"number"`
	Drafters []string `json:"drafters"`
}

// Board is the fully generated pick sequence.
type Board struct {
	Rounds []Round `json:"rounds"`
	// Picks is the per-participant pick count; every participant ends at
	// the generator's target.
	Picks map[string]int `json:"picks"`

	slots []string
}

// Slots flattens the board into pick order.
func (b *Board) Slots() []string {
	return b.slots
}

// Drafter returns the participant holding pick number totalPicked (zero
// based). The second return is false once the draft is complete; completion
// is strictly a matter of counts, never of round shapes.
func (b *Board) Drafter(totalPicked int) (string, bool) {
	if totalPicked < 0 || totalPicked >= len(b.slots) {
		return "", false
	}
	return b.slots[totalPicked], true
}

// Generator produces draft boards for one pool.
type Generator struct {
	participants []string
	target       int
	mode         Mode

	// Dynasty state: standings order plus the traded-pick table.
	standings []string
	traded    []map[string]string
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithMode selects snake or standard ordering for fresh drafts.
func WithMode(m Mode) Option {
	return func(g *Generator) {
		if m == ModeStandard || m == ModeSnake {
			g.mode = m
		}
	}
}

// WithDynasty switches the generator to dynasty ordering: the reversed
// final standings pick first, and for rounds covered by the traded-pick
// table each nominal slot redirects to the pick's current owner.
func WithDynasty(finalStandings []string, traded []map[string]string) Option {
	return func(g *Generator) {
		g.standings = finalStandings
		g.traded = traded
	}
}

// NewGenerator creates a Generator. target is how many players each
// participant drafts in total.
func NewGenerator(participants []string, target int, opts ...Option) (*Generator, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidDraft)
	}
	if target < 1 {
		return nil, fmt.Errorf("%w: target %d", ErrInvalidDraft, target)
	}

	g := &Generator{
		participants: participants,
		target:       target,
		mode:         ModeStandard,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.standings != nil && len(g.standings) != len(participants) {
		return nil, fmt.Errorf("%w: standings cover %d of %d participants", ErrInvalidDraft, len(g.standings), len(participants))
	}
	return g, nil
}

// Board generates the full pick sequence.
func (g *Generator) Board(ctx context.Context) (*Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.standings != nil {
		return g.dynastyBoard()
	}
	return g.freshBoard(), nil
}

// freshBoard lays out target rounds over the participant list, reversing
// odd rounds in snake mode.
func (g *Generator) freshBoard() *Board {
	b := &Board{Picks: make(map[string]int, len(g.participants))}
	for round := 0; round < g.target; round++ {
		order := g.participants
		if g.mode == ModeSnake && round%2 == 1 {
			order = reversed(g.participants)
		}
		drafters := make([]string, len(order))
		copy(drafters, order)
		b.Rounds = append(b.Rounds, Round{Number: round + 1, Drafters: drafters})
		b.slots = append(b.slots, drafters...)
		for _, id := range drafters {
			b.Picks[id]++
		}
	}
	return b
}

// dynastyBoard orders each round by reversed final standings (worst record
// first) and redirects nominal slots through the traded-pick table. The
// pick count accrues to the actual drafter, so redirected participants can
// finish ahead of or behind their nominal round position; rounds keep
// running until every count reaches the target.
func (g *Generator) dynastyBoard() (*Board, error) {
	known := make(map[string]struct{}, len(g.participants))
	for _, id := range g.participants {
		known[id] = struct{}{}
	}

	base := reversed(g.standings)
	b := &Board{Picks: make(map[string]int, len(g.participants))}
	for _, id := range g.participants {
		b.Picks[id] = 0
	}

	for round := 0; !g.complete(b.Picks); round++ {
		var drafters []string
		for _, nominal := range base {
			owner := nominal
			if round < len(g.traded) {
				if current, ok := g.traded[round][nominal]; ok {
					owner = current
				}
			}
			if _, ok := known[owner]; !ok {
				// A pick table naming a stranger would silently skew
				// pick counts; fail loudly instead.
				return nil, fmt.Errorf("%w: round %d pick of %s owned by %s", ErrUnknownPickOwner, round+1, nominal, owner)
			}
			if b.Picks[owner] >= g.target {
				continue
			}
			drafters = append(drafters, owner)
			b.Picks[owner]++
		}
		if len(drafters) == 0 {
			return nil, fmt.Errorf("%w: round %d yields no picks", ErrStalledDraft, round+1)
		}
		b.Rounds = append(b.Rounds, Round{Number: round + 1, Drafters: drafters})
		b.slots = append(b.slots, drafters...)
	}
	return b, nil
}

func (g *Generator) complete(picks map[string]int) bool {
	for _, id := range g.participants {
		if picks[id] < g.target {
			return false
		}
	}
	return true
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
