package models

import "errors"

// Domain-specific errors shared by the store and the ordering engine
var (
	// ErrCourseNotFound indicates the referenced course does not exist
	ErrCourseNotFound = errors.New("course not found")

	// ErrMetadataNotFound indicates no order metadata row exists for the collection
	ErrMetadataNotFound = errors.New("order metadata not found")
)
