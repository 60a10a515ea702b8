package storefront

import "errors"

// Common errors for storefront operations. Services wrap these with %w so
// callers can classify a failure with errors.Is regardless of which layer
// produced it.
var (
	// ErrAuth indicates an action that requires a session which is absent
	// or expired.
	ErrAuth = errors.New("authentication required")

	// ErrValidation indicates locally detectable bad input; no network
	// call has been made.
	ErrValidation = errors.New("invalid input")

	// ErrFetch indicates a network failure or a non-success response from
	// the data store or the backend API.
	ErrFetch = errors.New("fetch failed")
)
