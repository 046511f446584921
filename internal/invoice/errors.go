package invoice

import "errors"

var (
	// ErrGenerationInFlight is returned when a generate is requested while
	// an extraction is still processing. Concurrent extractions racing to
	// replace the same draft would lose updates, so the second call is
	// rejected rather than queued.
	ErrGenerationInFlight = errors.New("an extraction is already in progress")

	// ErrNotFound is returned when an archived invoice id does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidBackup is returned when a backup document fails validation.
	// Nothing is written to the store in that case.
	ErrInvalidBackup = errors.New("invalid backup file")
)
