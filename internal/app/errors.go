package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrInvalidComposition = errors.New("invalid composition")
	ErrInvalidTrade       = errors.New("invalid trade")
	ErrQueueFull          = errors.New("recompute queue full")
	ErrNoSeason           = errors.New("no snapshots ingested yet")
)
