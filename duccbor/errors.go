package duccbor

import (
	"fmt"

	"github.com/ducflair/duc-sub001/pkg/constants"
)

// FormatError reports a buffer that is not a well-formed duc document.
// It matches constants.ErrInvalidFormat with errors.Is.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d: %s: %v", constants.ErrInvalidFormat, e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %s", constants.ErrInvalidFormat, e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{constants.ErrInvalidFormat, e.Err}
	}
	return []error{constants.ErrInvalidFormat}
}

func formatError(offset int, reason string, err error) error {
	return &FormatError{Offset: offset, Reason: reason, Err: err}
}
