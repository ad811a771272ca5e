package draft

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidDraft = errors.New("invalid draft configuration")
	// ErrUnknownPickOwner flags a traded-pick entry naming a participant
	// that is not in the pool; skipping it would corrupt pick counts.
	ErrUnknownPickOwner = errors.New("unknown pick owner")
	// ErrStalledDraft flags a traded-pick table that starves a participant
	// of picks so the board can never complete.
	ErrStalledDraft = errors.New("draft cannot complete")
)
