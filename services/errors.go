package services

import "errors"

// Error kinds shared across services and the HTTP error mapping. Engine
// errors are wrapped into one of these so handlers can pick a status
// without knowing the engine packages.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrBracketNotFound    = errors.New("no active bracket for tournament")
	ErrMatchNotFound      = errors.New("match not found")
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrScheduleNotFound   = errors.New("schedule not found")

	// Validation and business rules — surfaced, never retried automatically.
	ErrValidationFailed      = errors.New("validation failed")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrMatchTeamsUnresolved  = errors.New("match teams are not resolved yet")
	ErrMatchNotScheduled     = errors.New("match holds no slot")

	// Caller-side sequencing bugs.
	ErrInconsistentBracket = errors.New("bracket state is inconsistent")

	// User-correctable scheduling conflicts.
	ErrSlotConflict = errors.New("slot conflict")

	// Bulk slot generation failed; the whole step was rolled back and can
	// be retried as a unit.
	ErrGenerationFailed = errors.New("slot generation failed")

	// Authorization (decided by the external collaborator).
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
