package aggregate

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrDuplicatePlayer flags a player id present in two position buckets
	// of the same day. The upstream data is inconsistent and no precedence
	// rule is safe to apply.
	ErrDuplicatePlayer = errors.New("player in multiple position buckets")
)
