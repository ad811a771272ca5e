// Package model contains domain models passed between layers.
package model

import "time"

// Position identifies the bucket a player is scored in.
type Position string

// Position buckets. Forwards and defensemen share the skater formula,
// goalies have their own.
const (
	PositionForward Position = "F"
	PositionDefense Position = "D"
	PositionGoalie  Position = "G"
)

// Status tags a player aggregate relative to the current roster.
type Status string

// Player statuses. Ignored is assigned by the ranking engine only,
// after bucket sorting; the classifier never produces it.
const (
	StatusActive    Status = "active"
	StatusReservist Status = "reservist"
	StatusIgnored   Status = "ignored"
	StatusTraded    Status = "traded"
)

// Player is an immutable identity owned by the upstream data source.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
}

// SkaterLine is one day of raw events for a forward or defenseman.
type SkaterLine struct {
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	ShootoutGoals int `json:"shootout_goals"`
}

// GoalieLine is one day of raw events for a goalie.
type GoalieLine struct {
	Goals        int  `json:"goals"`
	Assists      int  `json:"assists"`
	Win          bool `json:"win"`
	Shutout      bool `json:"shutout"`
	OvertimeLoss bool `json:"overtime_loss"`
}

// DailyRoster holds one participant's roster for one day. Keys are player
// ids; a nil line means the player was rostered but did not play.
type DailyRoster struct {
	Forwards  map[string]*SkaterLine `json:"forwards"`
	Defenders map[string]*SkaterLine `json:"defenders"`
	Goalies   map[string]*GoalieLine `json:"goalies"`
}

// DailySnapshot is the stored state of a pool for one calendar day.
// Cumulated marks the snapshot as finalized in the authoritative store;
// otherwise events must be resolved against a live leaders feed.
type DailySnapshot struct {
	Day       Day                    `json:"date"`
	Rosters   map[string]DailyRoster `json:"rosters"`
	Cumulated bool                   `json:"is_cumulated"`
}

// LeadersFeed is the in-progress, same-day event source keyed by player id.
// A rostered player absent from the feed simply has not played yet.
type LeadersFeed struct {
	Skaters map[string]SkaterLine `json:"skaters"`
	Goalies map[string]GoalieLine `json:"goalies"`
}

// Composition is a participant's current lineup: active lists per position
// plus the reservists. The engine treats it as read-only input.
type Composition struct {
	Forwards   []string `json:"chosen_forwards"`
	Defenders  []string `json:"chosen_defenders"`
	Goalies    []string `json:"chosen_goalies"`
	Reservists []string `json:"chosen_reservists"`
}

// ActiveContains reports whether the player id is in the active
// (non-reservist) part of the composition.
func (c Composition) ActiveContains(playerID string) bool {
	for _, list := range [][]string{c.Forwards, c.Defenders, c.Goalies} {
		for _, id := range list {
			if id == playerID {
				return true
			}
		}
	}
	return false
}

// ReservistContains reports whether the player id is on the reserve list.
func (c Composition) ReservistContains(playerID string) bool {
	for _, id := range c.Reservists {
		if id == playerID {
			return true
		}
	}
	return false
}

// Trade records an accepted exchange of players between two participants.
type Trade struct {
	ID         string    `json:"id"`
	Proposer   string    `json:"proposer"`
	Acceptor   string    `json:"acceptor"`
	ToProposer []string  `json:"to_proposer"`
	ToAcceptor []string  `json:"to_acceptor"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// RosterLimits bounds the lineup sizes per position.
type RosterLimits struct {
	Forwards   int `json:"forwards" koanf:"forwards"`
	Defenders  int `json:"defenders" koanf:"defenders"`
	Goalies    int `json:"goalies" koanf:"goalies"`
	Reservists int `json:"reservists" koanf:"reservists"`
}

// Total is the number of players a participant drafts to fill a roster.
func (l RosterLimits) Total() int {
	return l.Forwards + l.Defenders + l.Goalies + l.Reservists
}

// DynastySettings configures the multi-season pool variant.
type DynastySettings struct {
	// TradableRounds is how many leading draft rounds have tradable picks.
	TradableRounds int `json:"tradable_rounds" koanf:"tradable_rounds"`
	// ProtectedPerSeason is how many players each participant keeps
	// across seasons, reducing the per-season draft target.
	ProtectedPerSeason int `json:"protected_per_season" koanf:"protected_per_season"`
}

// TradedPicks maps, per round index, the original pick owner to whoever
// currently owns that round's pick.
type TradedPicks []map[string]string
