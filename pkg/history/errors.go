package history

import (
	"fmt"
)

// HistoryError reports why a version could not be resolved or materialized.
// Kind is one of the history sentinels in pkg/constants.
type HistoryError struct {
	VersionID string
	Kind      error
	Detail    string
	Cause     error
}

func (e *HistoryError) Error() string {
	msg := fmt.Sprintf("version %q: %v", e.VersionID, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *HistoryError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func historyError(versionID string, kind error, detail string, cause error) error {
	return &HistoryError{VersionID: versionID, Kind: kind, Detail: detail, Cause: cause}
}
