package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the deepest stack trace attached to any error in the
// cause chain, or nil when none was recorded yet.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// StackTrace formats the stack trace recorded in the error for display,
// or returns an empty string when the error carries none.
func StackTrace(err error) string {
	st := stackTrace(err)
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%+v", st)
}
