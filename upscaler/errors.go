package upscaler

import (
	"errors"
	"fmt"
)

// The kinds of failure.  Every error returned by this package matches
// exactly one of these with errors.Is, except for context cancellation
// which matches the context's error instead.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDecode          = errors.New("decode failed")
	ErrEncode          = errors.New("encode failed")
	ErrWrite           = errors.New("write failed")
)

// Stage names the step of an upscale that failed.
type Stage string

const (
	StageArgs    Stage = "args"
	StageDecode  Stage = "decode"
	StageCompute Stage = "compute"
	StageEncode  Stage = "encode"
	StageWrite   Stage = "write"
)

// Error describes a failed upscale: the stage, the path or value at fault,
// and the underlying cause.
type Error struct {
	Stage   Stage
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Subject, e.Err)
}

// Unwrap exposes both the kind and the cause, so errors.Is works for
// ErrDecode as well as for, say, fs.ErrNotExist.
func (e *Error) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

func invalidArg(stage Stage, subject string, format string, args ...interface{}) *Error {
	return &Error{stage, ErrInvalidArgument, subject, fmt.Errorf(format, args...)}
}
