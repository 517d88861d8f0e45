package models

import "time"

// OrderMetadata is the per-collection singleton holding the chain head
type OrderMetadata struct {
	CollectionID string
	HeadID       *string // nil when the collection is empty
	UpdatedAt    time.Time
}
