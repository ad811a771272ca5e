package simulate

import "errors"

var (
	// ErrRequestFailed wraps transport-level failures against the service.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnexpectedStatus marks a non-success HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrVerification marks a standings check that did not hold.
	ErrVerification = errors.New("verification failed")
	// ErrInvalidSimConfig marks unusable simulation parameters.
	ErrInvalidSimConfig = errors.New("invalid simulation config")
)
