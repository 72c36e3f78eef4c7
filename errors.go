package mindlab

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrInvalidConfiguration indicates a Spec was rejected at Start. The run
	// never begins.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTransportUnavailable indicates the external input device could not be
	// opened. Any engine stays Idle.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrNotFinished indicates results were requested before the run completed.
	ErrNotFinished = errors.New("run not finished")

	// ErrRunInProgress indicates Start was called while a run is live.
	ErrRunInProgress = errors.New("run in progress")

	// ErrValidation indicates a value failed validation outside of a Spec,
	// e.g. a high score record or a task configuration.
	ErrValidation = errors.New("validation error")
)
