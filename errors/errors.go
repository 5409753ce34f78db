package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled: wrong permission bit, a non-member, or
	// the wrong config authority. Rejected before any state mutation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested entity cannot be loaded from
	// the store.
	ErrNotFound = Register(3, "not found")

	// ErrInput is returned for malformed input that must be corrected by
	// the caller before resubmission. Messages failing this validation
	// are never meant to be submitted at all.
	ErrInput = Register(4, "invalid input")

	// ErrModel is returned whenever a persisted entity is invalid and
	// cannot be stored.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has
	// the same unique key, or a member repeats a vote of the same kind.
	ErrDuplicate = Register(6, "duplicate")

	// ErrState is returned when an entity is in the wrong state for the
	// attempted transition, so the caller can resync against the latest
	// committed state.
	ErrState = Register(7, "invalid state")

	// ErrStale is returned for operations on a proposal index at or
	// below the registry's stale transaction index. Such proposals are
	// permanently unusable.
	ErrStale = Register(8, "stale index")

	// ErrBudget is returned when a spending limit use exceeds the
	// remaining budget. The remaining balance is left unchanged.
	ErrBudget = Register(9, "budget exceeded")

	// ErrDestination is returned when a spending limit restricts
	// destinations and the requested one is not eligible.
	ErrDestination = Register(10, "destination restricted")

	// ErrExecution is returned when a downstream operation within a
	// compiled payload fails. The whole execution aborts atomically and
	// may be retried once the underlying condition is fixed.
	ErrExecution = Register(11, "execution failed")

	// ErrType is returned whenever the type is not what was expected.
	ErrType = Register(12, "invalid type")

	// ErrEmpty is returned when a value fails a not-empty assertion.
	ErrEmpty = Register(13, "value is empty")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(14, "value overflow")

	// ErrImmutable is returned when something that is considered
	// immutable gets modified.
	ErrImmutable = Register(15, "cannot be modified")

	// ErrHuman is returned when the application reaches a code path
	// which should not ever be reached if the code was written as
	// expected by the framework.
	ErrHuman = Register(16, "coding error")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may
// want to declare custom codes. This function ensures that no error code
// is used twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No
// two error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is reserved for non-engine errors and must not be used.
}

// Error represents a root error.
//
// The engine is using root errors to categorize issues. Each instance
// created during the runtime should wrap one of the declared root errors.
// This allows error tests and returning all errors to the client in a
// safe manner.
//
// If an extension has to declare a custom root error, always use the
// Register function to ensure error code uniqueness.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the stable numeric classification of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. The returned instance has the root cause set
// to this error. The two lines below are equal:
//
//	e.New("my description")
//	Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks if given error instance is of a given kind/type. This
// involves unwrapping the given error using the Cause method if
// available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide the Code method (ie. stdlib
// errors), it will be labeled as an internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet,
	// attach one. This should be done only once per error at the lowest
	// frame possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like the Wrap function with additional
// functionality of formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Code returns the code of the wrapped root error.
func (e *wrappedError) Code() uint32 {
	return Code(e.parent)
}

// Code returns the classification code carried by an error, unwrapping as
// necessary. Errors created outside of this package are reported as
// internal (code 1). A nil error reports zero.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return 1
		}
	}
}

// Recover captures a panic and stops its propagation. If panic happens it
// is transformed into a ErrPanic instance and assigned to given error.
// Call this function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType is a helper to augment an error with a corresponding type
// message.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is an interface implemented by an error that supports wrapping.
// Use it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

// coder is implemented by any error that exposes a classification code.
type coder interface {
	Code() uint32
}
