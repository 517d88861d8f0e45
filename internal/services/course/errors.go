package course

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// Course-related errors
var (
	// Validation errors
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleTooLong      = fmt.Errorf("title cannot exceed %d characters", models.MaxTitleLength)
	ErrInstructorTooLong = fmt.Errorf("instructor cannot exceed %d characters", models.MaxInstructorLength)
	ErrInvalidCourseID   = errors.New("invalid course ID")
	ErrInvalidOrderIndex = errors.New("order index cannot be negative")
	ErrEmptyUpdate       = errors.New("no fields to update")

	// Business logic errors
	ErrCourseNotFound = models.ErrCourseNotFound
)
