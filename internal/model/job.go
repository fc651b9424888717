package model

import (
	"time"

	"github.com/google/uuid"
)

// Job is a posting owned by exactly one company user.
// The owner's role is checked by the service at creation time; the storage
// layer only enforces that CreatedBy references an existing user.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JobFilter narrows a job listing. Empty fields match everything.
// Both fields are case-insensitive substring matches, combined with AND.
type JobFilter struct {
	Title    string
	Location string
}
