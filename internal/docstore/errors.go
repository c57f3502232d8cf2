package docstore

import (
	"errors"
	"fmt"
)

// Operation failures. Every error returned by DB matches exactly one of these.
var (
	ErrInsertFailure = errors.New("failed to insert")
	ErrQueryFailure  = errors.New("failed to query")
	ErrDeleteFailure = errors.New("failed to delete")
	ErrUpdateFailure = errors.New("failed to update")
)

// Causes joined onto an operation failure
var (
	ErrInvalidID           = errors.New("invalid document id")
	ErrNotAcknowledged     = errors.New("write not acknowledged")
	ErrNoMatch             = errors.New("no document matched the filter")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// fail joins an operation failure with its cause so callers can test for either.
func fail(op, cause error) error {
	if cause == nil {
		return op
	}
	return fmt.Errorf("%w: %w", op, cause)
}
