package storage

import (
	"fmt"

	"github.com/ducflair/duc-sub001/pkg/constants"
)

// BootstrapError reports a database whose schema this build cannot use.
type BootstrapError struct {
	Found     constants.SchemaVersion
	Supported constants.SchemaVersion
	Err       error
}

func (e *BootstrapError) Error() string {
	msg := fmt.Sprintf("%v: database schema %s, this build supports %s", constants.ErrBootstrap, e.Found, e.Supported)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BootstrapError) Unwrap() []error {
	if e.Err != nil {
		return []error{constants.ErrBootstrap, e.Err}
	}
	return []error{constants.ErrBootstrap}
}
