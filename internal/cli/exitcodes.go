package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/todo/internal/docstore"
	taskservice "github.com/thenoetrevino/todo/internal/services/task"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: store errors, network errors, unexpected failures.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: wrong argument count, malformed task identifiers.
	ExitUsage = 2

	// ExitNotFound indicates a requested task was not found.
	ExitNotFound = 3
)

// ExitCodeError carries the process exit code for an already reported failure.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// WithExitCode wraps err with the exit code its kind maps to.
func WithExitCode(err error) error {
	if err == nil {
		return nil
	}
	return &ExitCodeError{Code: classify(err), Err: err}
}

// ExitCode returns the process exit code for err. Errors that never went
// through WithExitCode come from cobra's argument checks and count as usage.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

func classify(err error) int {
	switch {
	case errors.Is(err, taskservice.ErrTaskNotFound), errors.Is(err, docstore.ErrNoMatch):
		return ExitNotFound
	case errors.Is(err, taskservice.ErrInvalidTaskID), errors.Is(err, docstore.ErrInvalidID):
		return ExitUsage
	default:
		return ExitError
	}
}

// ErrorCode is the machine-readable code reported in JSON errors.
func ErrorCode(err error) string {
	switch classify(err) {
	case ExitNotFound:
		return "TASK_NOT_FOUND"
	case ExitUsage:
		return "INVALID_TASK_ID"
	default:
		return "STORE_ERROR"
	}
}
