package models

// DefaultCollection is the metadata row used when no collection is configured
const DefaultCollection = "main"

// Payload limits enforced by the course service
const (
	MaxTitleLength      = 200
	MaxInstructorLength = 100
)
