package analysis

import "errors"

// Caller-input errors. Detected locally, never retried, surfaced
// verbatim to the caller.
var (
	ErrMissingStrategy     = errors.New("investment strategy is required")
	ErrConflictingInput    = errors.New("Rent-to-Rent is locked when a rental price was provided")
	ErrUnsupportedStrategy = errors.New("unsupported investment strategy")
)

// ErrMalformedOutput marks model output that survived the upstream call
// but failed JSON extraction or schema validation. The same request may
// succeed on a subsequent attempt.
var ErrMalformedOutput = errors.New("failed to parse analysis JSON")
