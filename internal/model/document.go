package model

import "time"

// Document is a record held by the external document store.
// Only OwnerID is interpreted by the aggregation logic; the remaining
// fields are passed through untouched.
type Document struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	OwnerID    string    `json:"owner_id"`
	Body       string    `json:"body,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
