package contract

import (
	"errors"
	"fmt"

	"github.com/huangsam/steptrack/schema"
)

// ErrPrecondition marks a caller bug: an out-of-range index, a non-positive
// duration or a malformed point list. Such errors are never clamped away.
var ErrPrecondition = errors.New("precondition violation")

// ErrNoSession is returned when an edit is attempted before a session is opened.
var ErrNoSession = errors.New("no session is open")

// Preconditionf returns an error wrapping ErrPrecondition.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// CodedError is a store failure carrying the message code shown to the user.
type CodedError struct {
	Code schema.MessageCode
	Err  error
}

// NewCodedError builds a CodedError; err may be nil.
func NewCodedError(code schema.MessageCode, err error) *CodedError {
	return &CodedError{Code: code, Err: err}
}

func (e *CodedError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// MessageCodeOf extracts the message code from err, or returns fallback.
func MessageCodeOf(err error, fallback schema.MessageCode) schema.MessageCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return fallback
}

// LoadError reports that a session could not be loaded into the editor.
type LoadError struct {
	Ref schema.SessionRef
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load session %s of patient %s: %v", e.Ref.SessionID, e.Ref.PatientID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
