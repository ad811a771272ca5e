package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/okian/shinny/internal/domain/model"
)

// Event probability weights out of 100.
const (
	goalChance       = 22
	assistChance     = 35
	shootoutChance   = 4
	winChance        = 45
	shutoutChance    = 8
	overtimeChance   = 12
	didNotPlayChance = 20
	multiGoalChance  = 6
)

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

func chance(pct int64) bool {
	return randomInt(100) < pct
}

// Season is everything one simulation generates up front.
type Season struct {
	Players      []model.Player
	Compositions map[string]model.Composition
	Snapshots    []model.DailySnapshot
	Trades       []model.Trade
}

// generateSeason builds participants, rosters and a full snapshot run.
func generateSeason(cfg *Config) (*Season, error) {
	start, err := model.ParseDay(cfg.StartDay)
	if err != nil {
		return nil, fmt.Errorf("start day: %w", err)
	}

	s := &Season{Compositions: make(map[string]model.Composition, cfg.Participants)}

	// One shared player pool, partitioned across participants.
	perTeam := cfg.ForwardsPerTeam + cfg.DefendersPerTeam + cfg.GoaliesPerTeam
	for p := 0; p < cfg.Participants; p++ {
		participantID := fmt.Sprintf("participant-%02d", p+1)
		comp := model.Composition{}
		for i := 0; i < perTeam; i++ {
			var pos model.Position
			switch {
			case i < cfg.ForwardsPerTeam:
				pos = model.PositionForward
			case i < cfg.ForwardsPerTeam+cfg.DefendersPerTeam:
				pos = model.PositionDefense
			default:
				pos = model.PositionGoalie
			}
			player := model.Player{
				ID:       fmt.Sprintf("player-%02d-%02d", p+1, i+1),
				Name:     fmt.Sprintf("Player %02d-%02d", p+1, i+1),
				Team:     fmt.Sprintf("TEAM%d", randomInt(30)+1),
				Position: pos,
			}
			s.Players = append(s.Players, player)
			switch pos {
			case model.PositionForward:
				comp.Forwards = append(comp.Forwards, player.ID)
			case model.PositionDefense:
				comp.Defenders = append(comp.Defenders, player.ID)
			case model.PositionGoalie:
				comp.Goalies = append(comp.Goalies, player.ID)
			}
		}
		s.Compositions[participantID] = comp
	}

	day := start
	for d := 0; d < cfg.Days; d++ {
		snap := model.DailySnapshot{
			Day:       day,
			Cumulated: true,
			Rosters:   make(map[string]model.DailyRoster, cfg.Participants),
		}
		for participantID, comp := range s.Compositions {
			snap.Rosters[participantID] = generateRoster(comp)
		}
		s.Snapshots = append(s.Snapshots, snap)
		day = day.Next()
	}

	s.Trades = generateTrades(cfg, s, start)
	return s, nil
}

// generateRoster rolls one day of lines for a composition. A nil line means
// the player's team did not play.
func generateRoster(comp model.Composition) model.DailyRoster {
	roster := model.DailyRoster{
		Forwards:  make(map[string]*model.SkaterLine, len(comp.Forwards)),
		Defenders: make(map[string]*model.SkaterLine, len(comp.Defenders)),
		Goalies:   make(map[string]*model.GoalieLine, len(comp.Goalies)),
	}
	for _, id := range comp.Forwards {
		roster.Forwards[id] = rollSkaterLine()
	}
	for _, id := range comp.Defenders {
		roster.Defenders[id] = rollSkaterLine()
	}
	for _, id := range comp.Goalies {
		roster.Goalies[id] = rollGoalieLine()
	}
	return roster
}

func rollSkaterLine() *model.SkaterLine {
	if chance(didNotPlayChance) {
		return nil
	}
	line := &model.SkaterLine{}
	if chance(goalChance) {
		line.Goals = 1
		if chance(multiGoalChance) {
			// Occasional multi-goal night, hat tricks included.
			line.Goals += int(randomInt(3)) + 1
		}
	}
	if chance(assistChance) {
		line.Assists = int(randomInt(2)) + 1
	}
	if chance(shootoutChance) {
		line.ShootoutGoals = 1
	}
	return line
}

func rollGoalieLine() *model.GoalieLine {
	if chance(didNotPlayChance) {
		return nil
	}
	line := &model.GoalieLine{}
	switch {
	case chance(winChance):
		line.Win = true
		if chance(shutoutChance * 2) {
			line.Shutout = true
		}
	case chance(overtimeChance * 2):
		line.OvertimeLoss = true
	}
	return line
}

// generateTrades swaps one forward between random participant pairs, stamped
// inside the snapshot range.
func generateTrades(cfg *Config, s *Season, start model.Day) []model.Trade {
	if cfg.Trades <= 0 || cfg.Participants < 2 {
		return nil
	}
	ids := make([]string, 0, len(s.Compositions))
	for id := range s.Compositions {
		ids = append(ids, id)
	}

	trades := make([]model.Trade, 0, cfg.Trades)
	for i := 0; i < cfg.Trades; i++ {
		a := ids[randomInt(int64(len(ids)))]
		b := ids[randomInt(int64(len(ids)))]
		if a == b {
			continue
		}
		compA, compB := s.Compositions[a], s.Compositions[b]
		if len(compA.Forwards) == 0 || len(compB.Forwards) == 0 {
			continue
		}
		dayOffset := randomInt(int64(cfg.Days))
		acceptedAt := start.Time().Add(time.Duration(dayOffset)*24*time.Hour + 15*time.Hour)
		trades = append(trades, model.Trade{
			Proposer:   a,
			Acceptor:   b,
			ToAcceptor: []string{compA.Forwards[randomInt(int64(len(compA.Forwards)))]},
			ToProposer: []string{compB.Forwards[randomInt(int64(len(compB.Forwards)))]},
			AcceptedAt: acceptedAt,
		})
	}
	return trades
}
