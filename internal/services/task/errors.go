package task

import "errors"

// Task-related errors
var (
	// ErrInvalidTaskID is returned when no identifier was supplied
	ErrInvalidTaskID = errors.New("invalid task ID")

	// ErrTaskNotFound is returned when a lookup by identifier matches nothing
	ErrTaskNotFound = errors.New("task not found")
)
