package coordination

import "errors"

// Lookup failures: the caller referenced something that does not exist.
// No state is mutated.
var ErrSessionNotFound = errors.New("session not found")

// Validation failures: the mutation is malformed for the session's current
// shape. Rejected locally, no state change.
var (
	ErrNotParticipant = errors.New("user is not a participant of this session")
	ErrTerminalState  = errors.New("session is already finalized")
	ErrInvalidState   = errors.New("operation not valid in the session's current state")
	ErrBadPasscode    = errors.New("incorrect session passcode")
)
