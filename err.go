package duc

import (
	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/history"
)

// Errors returned by this package. Match them with errors.Is.
var (
	ErrInvalidFormat      = constants.ErrInvalidFormat
	ErrVersionNotFound    = constants.ErrVersionNotFound
	ErrBrokenHistoryChain = constants.ErrBrokenHistoryChain
	ErrCyclicHistory      = constants.ErrCyclicHistory
	ErrBoundsViolation    = constants.ErrBoundsViolation
)

// FormatError carries the offset at which decoding failed.
type FormatError = duccbor.FormatError

// HistoryError names the version whose reconstruction failed.
type HistoryError = history.HistoryError
