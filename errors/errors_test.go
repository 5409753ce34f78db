package errors

import (
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrUnauthorized,
			b:      ErrUnauthorized,
			wantIs: true,
		},
		"two different root errors": {
			a:      ErrUnauthorized,
			b:      ErrState,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(ErrUnauthorized, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(ErrBudget, "too much"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrState,
			b:      fmt.Errorf("invalid state"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrState,
			b:      Wrap(fmt.Errorf("invalid state"), "outer"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not a non-nil error": {
			a:      nil,
			b:      ErrState,
			wantIs: false,
		},
		"multi level wrapping": {
			a:      ErrDuplicate,
			b:      Wrap(Wrap(ErrDuplicate, "inner"), "outer"),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

type customError struct{}

func (customError) Error() string { return "custom" }

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":                {err: nil, want: 0},
		"root":               {err: ErrNotFound, want: 3},
		"wrapped root":       {err: Wrap(ErrNotFound, "no proposal"), want: 3},
		"twice wrapped root": {err: Wrap(Wrap(ErrStale, "a"), "b"), want: 8},
		"stdlib is internal": {err: fmt.Errorf("broken"), want: 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "never mind"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrap(ErrBudget, "requested 700")
	const want = "requested 700: budget exceeded"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestStackTraceAttachedOnce(t *testing.T) {
	inner := Wrap(ErrState, "inner")
	outer := Wrap(inner, "outer")
	if StackTrace(outer) == "" {
		t.Fatal("no stack trace recorded")
	}
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("emergency")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}

func TestRegisterDuplicateCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(2, "duplicate code")
}
