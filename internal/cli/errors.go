package cli

import (
	"errors"
	"log/slog"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/models"
	courseservice "github.com/thenoetrevino/syllabus/internal/services/course"
)

// CommandError carries the process exit code for a command failure that has
// already been reported to the user.
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return ExitError
}

// Classify maps a domain error to an output error code, exit code and
// suggestion for the user.
func Classify(err error) (code string, exit int, suggestion string) {
	switch {
	case chain.IsPartialWrite(err):
		return "PARTIAL_WRITE", ExitDataErr, "Restore a consistent chain with: syllabus order repair"
	case errors.Is(err, models.ErrCourseNotFound):
		return "COURSE_NOT_FOUND", ExitNotFound, "List courses with: syllabus course list"
	case errors.Is(err, courseservice.ErrEmptyTitle),
		errors.Is(err, courseservice.ErrTitleTooLong),
		errors.Is(err, courseservice.ErrInstructorTooLong),
		errors.Is(err, courseservice.ErrInvalidCourseID),
		errors.Is(err, courseservice.ErrInvalidOrderIndex),
		errors.Is(err, courseservice.ErrEmptyUpdate),
		errors.Is(err, chain.ErrEmptyID):
		return "VALIDATION_ERROR", ExitValidation, ""
	case errors.Is(err, chain.ErrNotInitialized):
		return "CHAIN_NOT_INITIALIZED", ExitDataErr, "Build the chain with: syllabus order rebuild"
	case errors.Is(err, chain.ErrChainIncomplete):
		return "CHAIN_INCOMPLETE", ExitDataErr, "Restore a consistent chain with: syllabus order repair"
	case errors.Is(err, chain.ErrHeadConflict):
		return "HEAD_CONFLICT", ExitError, "Another writer changed the order, retry the command"
	default:
		return "INTERNAL_ERROR", ExitError, ""
	}
}

// Fail reports err through the formatter and returns it wrapped with the
// matching exit code.
func Fail(formatter *OutputFormatter, err error) error {
	code, exit, suggestion := Classify(err)
	if fmtErr := formatter.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return &CommandError{Code: exit, Err: err}
}

// Usage reports a usage problem and returns an ExitUsage error
func Usage(formatter *OutputFormatter, code string, err error, suggestion string) error {
	if fmtErr := formatter.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return &CommandError{Code: ExitUsage, Err: err}
}
