package fetch

import (
	"fmt"
)

// Error is returned by Fetch if content could not be loaded from any source.
// It carries the failure of the first source that was attempted.
type Error struct {
	Source   Source
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("could not load data from %s %q: %v", e.Source, e.Location, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError is the cause of an Error if a remote location answered with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned unexpected status %q", e.URL, e.Status)
}
