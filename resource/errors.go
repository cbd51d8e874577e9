package resource

import (
	"fmt"
	"strings"
)

// tabularKinds are the kinds of values accepted as tabular data.
var tabularKinds = []string{"slice", "array"}

// TypeError is returned when content is not tabular, that is, it is not a sequence of rows
// after JSON and CSV interpretation. Load recovers from it by returning a plain Resource.
type TypeError struct {
	// Expected lists the accepted kinds of values.
	Expected []string
	// Actual is the type of the value that was found.
	Actual string
	// Err is the reason textual content could not be interpreted, if any.
	Err error
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("expected data type to be any of '%s' but it was '%s'", strings.Join(e.Expected, ", "), e.Actual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() error {
	return e.Err
}
