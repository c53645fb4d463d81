package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the file behind an id does not exist.
	ErrNotFound = errors.New("content: not found")

	// ErrInvalidID is returned for ids that are malformed or resolve to a
	// path the cache refuses to serve.
	ErrInvalidID = errors.New("content: invalid post id")
)

// DataError reports a source file whose front matter could not be parsed.
// The previously cached entry, if any, stays in place.
type DataError struct {
	id    string
	cause error
}

func (e *DataError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "content: bad data in %q", e.id)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *DataError) Unwrap() error {
	return e.cause
}

// ID is the identifier of the offending document.
func (e *DataError) ID() string {
	return e.id
}

func newDataError(id string, cause error) *DataError {
	return &DataError{id: id, cause: cause}
}

func invalidID(id string) error {
	return fmt.Errorf("%w %q", ErrInvalidID, id)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
