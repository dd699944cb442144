package league

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two hard failure classes. Wrap with NotFoundf /
// InvalidRequestf and test with errors.Is. A submitted bowler who belongs to
// neither team is NOT an error (see settlement.GameOutcome.Unattributed);
// that gap is surfaced as data.
var (
	// ErrNotFound marks a missing match, season, bowler, team, or
	// substitution. Surfaced directly to the caller, no retry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest marks a domain-rule violation. Always detected
	// before any write, so a rejected request leaves no partial state.
	ErrInvalidRequest = errors.New("invalid request")
)

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidRequestf wraps ErrInvalidRequest with context.
func InvalidRequestf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidRequest)...)
}
