// file: internal/catalog/errors.go
// version: 1.1.0
// guid: e8b0c2d4-6f1a-4e8b-9c3d-5a7e9b1d3f68

package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying catalog failures. Anything not wrapping one
// of these is a collaborator failure and surfaces as a server error.
var (
	// ErrInvalidRequest marks a request-shape violation (e.g. no search term)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound marks a reference to an entity the store does not contain
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed marks an operation on an existing entity whose
	// precondition is unmet (e.g. detail view of a book with zero files)
	ErrPreconditionFailed = errors.New("precondition failed")
)

func invalidRequestf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func preconditionFailedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, fmt.Sprintf(format, args...))
}
