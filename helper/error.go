package helper

import (
	"errors"
	"strings"
)

// Error wraps an error with the trace of operations it passed through.
type Error struct {
	Original error
	Trace    []string
}

// Error returns the trace (outermost first) followed by the original error.
func (e Error) Error() string {
	if e.Original == nil {
		return strings.Join(e.Trace, ": ")
	}
	return strings.Join(e.Trace, ": ") + ": " + e.Original.Error()
}

// Unwrap returns the original error so errors.Is and errors.As keep working.
func (e Error) Unwrap() error {
	return e.Original
}

// NewError wraps original with a trace entry. If original already is an Error
// the trace is prepended instead of nesting a second Error.
func NewError(trace string, original error) error {
	var e Error
	if errors.As(original, &e) {
		e.Trace = append([]string{trace}, e.Trace...)
		return e
	}
	return Error{
		Original: original,
		Trace:    []string{trace},
	}
}
