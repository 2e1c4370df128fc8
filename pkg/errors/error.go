package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// Error is a coded error with an optional cause, details and the call
// stack of the place it was created.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
	Stack   string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func build(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		Err:     cause,
		Stack:   captureStack(4),
	}
}

// New creates an error carrying the code's default message.
func New(code ErrorCode) *Error {
	return build(code, code.Message(), nil)
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code to err. An *Error anywhere in the chain is re-coded in
// place; a nil err stays nil.
func Wrap(err error, code ErrorCode) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		e.Code = code
		return e
	}
	return build(code, err.Error(), err)
}

// Wrapf wraps err under a new formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetail records a key/value pair for logging.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, 2)
	}
	e.Details[key] = value
	return e
}

// GetCode returns the code of the first *Error in err's chain, Success for
// nil and InternalError for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return Success
	}
	if e := find(err); e != nil {
		return e.Code
	}
	return InternalError
}

// GetError returns the first *Error in err's chain, wrapping foreign errors
// as InternalError.
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	if e := find(err); e != nil {
		return e
	}
	return Wrap(err, InternalError)
}

// Is reports whether err's chain holds an *Error with the given code.
// Joined errors are searched branch by branch.
func Is(err error, code ErrorCode) bool {
	switch x := err.(type) {
	case nil:
		return false
	case *Error:
		if x.Code == code {
			return true
		}
		return Is(x.Err, code)
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
	}
	return false
}

func find(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}

func captureStack(skip int) string {
	var pcs [12]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&b, "\n\t%s:%d %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// UsageError reports a malformed profiling invocation.
func UsageError(format string, args ...interface{}) *Error {
	return Newf(ProfileUsage, format, args...)
}

// ValidationError reports a bad parameter.
func ValidationError(field, reason string) *Error {
	return Newf(InvalidParams, "%s: %s", field, reason).
		WithDetail("field", field).
		WithDetail("reason", reason)
}
