// Package portal implements the extraction pipeline against the crew portal:
// the login state machine, calendar navigation, duty row classification and
// parsing, hotel distribution, crew extraction, and snapshot assembly.
package portal

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the run-level taxonomy. Terminal errors abort the
// run and must never be retried; retriable errors may be retried by the
// caller through the run-boundary policy.
var (
	// ErrFieldNotFound: every login-field locator candidate was exhausted.
	// Terminal.
	ErrFieldNotFound = errors.New("login field not found")

	// ErrInvalidCredentials: the identity provider rejected the login.
	// Terminal; never retried internally.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCalendarNotReached: the navigator hit its step bound without
	// reaching the target month. Non-fatal; the run continues with whatever
	// month is displayed.
	ErrCalendarNotReached = errors.New("calendar month not reached")
)

// NavigationTimeoutError wraps a timeout or navigation failure at a named
// stage. Retriable by the caller.
type NavigationTimeoutError struct {
	Stage string
	Err   error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation timeout during %s: %v", e.Stage, e.Err)
}

func (e *NavigationTimeoutError) Unwrap() error { return e.Err }

// Retriable reports whether the caller may retry the whole extraction run
// for this error. Terminal auth failures are never retriable.
func Retriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrFieldNotFound) {
		return false
	}
	var nav *NavigationTimeoutError
	return errors.As(err, &nav)
}

// Warning records one non-fatal per-row failure. Warnings never abort a run;
// they are carried alongside the snapshot for diagnostics.
type Warning struct {
	Stage  string `json:"stage"`
	Row    int    `json:"row,omitempty"`
	Detail string `json:"detail"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("%s (row %d): %s", w.Stage, w.Row, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Detail)
}
