package grid

import "errors"

var (
	// ErrSourceUnreadable reports a coordinate source that is missing,
	// unreadable, or lacks the expected "coords" field.
	ErrSourceUnreadable = errors.New("coordinate source unreadable")

	// ErrInvalidInput reports an empty coordinate set where one is required.
	ErrInvalidInput = errors.New("invalid input: empty coordinate set")

	// ErrEstimationIndeterminate is reported (not returned) when no
	// axis-aligned neighbours exist and the fallback pitch was used.
	ErrEstimationIndeterminate = errors.New("pitch estimation indeterminate")

	// ErrOutputWrite reports a table or image that could not be written.
	ErrOutputWrite = errors.New("output write failure")
)
