package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound marks operations that name an id not present in the
// collection. Wrap with the offending id and check with errors.Is.
var ErrNotFound = errors.New("item not found")

// ValidationError reports rejected input. The collection is never
// written when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func notFound(id int) error {
	return fmt.Errorf("#%d: %w", id, ErrNotFound)
}
