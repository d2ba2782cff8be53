package syncerr

import (
	"errors"
	"fmt"
)

// Code categorizes synchronization errors.
type Code string

const (
	// CodeInvalidArgument indicates a caller contract violation.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeResolutionFailed indicates a resolver decision faulted.
	CodeResolutionFailed Code = "RESOLUTION_FAILED"

	// CodeDispatchFailed indicates an action faulted while executing.
	CodeDispatchFailed Code = "DISPATCH_FAILED"

	// CodeSyncFailed indicates a data source or preprocessor failure.
	CodeSyncFailed Code = "SYNC_FAILED"

	// CodeUnknown indicates a fault that escaped the pipeline unclassified.
	CodeUnknown Code = "UNKNOWN"
)

// ErrNilArgument is matched by every ArgumentError via errors.Is.
var ErrNilArgument = errors.New("argument must not be nil")

// ArgumentError reports a missing or invalid required argument.
// It is a programming error and is never wrapped further.
type ArgumentError struct {
	Argument string
}

// NewArgumentError returns an ArgumentError for the named argument.
func NewArgumentError(argument string) *ArgumentError {
	return &ArgumentError{Argument: argument}
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q must not be nil or empty", e.Argument)
}

// Is reports whether target is ErrNilArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrNilArgument
}

// Code returns CodeInvalidArgument.
func (e *ArgumentError) Code() Code { return CodeInvalidArgument }

// ResolutionError wraps a fault raised by a resolver decision.
type ResolutionError struct {
	// Item is the value that was being resolved.
	Item any
	// Cause is the original fault.
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Failed to resolve change for %v", e.Item)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// Code returns CodeResolutionFailed.
func (e *ResolutionError) Code() Code { return CodeResolutionFailed }

// DispatchError wraps a fault raised while executing an action.
type DispatchError struct {
	// Action is the action name.
	Action string
	// Applicant is the item the action was applied to.
	Applicant any
	// Cause is the original fault.
	Cause error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("Failed executing action %s on %v!", e.Action, e.Applicant)
}

func (e *DispatchError) Unwrap() error { return e.Cause }

// Code returns CodeDispatchFailed.
func (e *DispatchError) Code() Code { return CodeDispatchFailed }

// SyncError reports a failing data source or preprocessor.
type SyncError struct {
	Message string
	Cause   error
}

// NewSyncError returns a SyncError with a formatted message.
func NewSyncError(cause error, format string, args ...any) *SyncError {
	return &SyncError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SyncError) Unwrap() error { return e.Cause }

// Code returns CodeSyncFailed.
func (e *SyncError) Code() Code { return CodeSyncFailed }

// UnknownError is the catch-all for faults that escape the pipeline.
type UnknownError struct {
	Cause error
}

func (e *UnknownError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("item synchronization failed for an unknown reason: %v", e.Cause)
	}
	return "item synchronization failed for an unknown reason"
}

func (e *UnknownError) Unwrap() error { return e.Cause }

// Code returns CodeUnknown.
func (e *UnknownError) Code() Code { return CodeUnknown }

// coded is implemented by every error in this package.
type coded interface {
	error
	Code() Code
}

// CodeOf returns the code of the first synchronization error in err's chain,
// or an empty code when there is none.
func CodeOf(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// IsDomainError reports whether err is already a synchronization error
// raised by one of the pipeline stages. Only the outermost error is inspected,
// so a foreign error wrapping a domain error is not itself a domain error.
func IsDomainError(err error) bool {
	switch err.(type) {
	case *ResolutionError, *DispatchError, *SyncError, *UnknownError, *ArgumentError:
		return true
	default:
		return false
	}
}

// IsResolutionError returns true if err wraps a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// IsDispatchError returns true if err wraps a DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}

// PanicError converts a recovered panic value into an error.
func PanicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
