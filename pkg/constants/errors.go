package constants

import "errors"

// Codec errors
var (
	// ErrInvalidFormat is returned when a buffer is not a well-formed duc document.
	ErrInvalidFormat = errors.New("invalid duc format")
)

// History errors
var (
	// ErrVersionNotFound is returned when a version id is not part of the graph.
	ErrVersionNotFound = errors.New("version not found")

	// ErrBrokenHistoryChain is returned when a parent walk cannot reach a checkpoint.
	ErrBrokenHistoryChain = errors.New("broken history chain")

	// ErrCyclicHistory is returned when a parent walk revisits a version.
	ErrCyclicHistory = errors.New("cyclic history")

	// ErrDuplicateVersion is returned when appending a version id that already exists.
	ErrDuplicateVersion = errors.New("version id already in use")

	// ErrPatchFailed is returned when a delta cannot be applied to its parent document.
	ErrPatchFailed = errors.New("delta patch could not be applied")
)

// Validation and storage errors
var (
	// ErrBoundsViolation is returned when an element lies outside the coordinate envelope.
	ErrBoundsViolation = errors.New("element outside coordinate envelope")

	// ErrBootstrap is returned when the persisted schema cannot be used by this build.
	ErrBootstrap = errors.New("schema bootstrap failed")
)
