package memory

import "fmt"

// Error implements repositories.RepositoryError for the in-memory catalog store.
type Error struct {
	op       string
	kind     string
	id       string
	notFound bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s not found", e.op, e.kind, e.id)
}

// IsNotFound reports whether the error represents a missing record.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

func notFoundError(op, kind, id string) *Error {
	return &Error{op: op, kind: kind, id: id, notFound: true}
}
