// Package status classifies players against a participant's current roster.
package status

import (
	"github.com/okian/shinny/internal/domain/model"
)

// Classify assigns a roster status to a player id observed on some day.
// Classification always runs against the current composition, not the
// roster as of the historical day: credit earned while rostered stays
// attached to the player id even after a later trade.
//
// Ignored is never produced here; the ranking engine assigns it after
// sorting each position bucket.
func Classify(playerID string, c model.Composition) model.Status {
	switch {
	case c.ActiveContains(playerID):
		return model.StatusActive
	case c.ReservistContains(playerID):
		return model.StatusReservist
	default:
		return model.StatusTraded
	}
}
