package model

import "time"

// EventRule decides whether an inbound payload triggers a review.
type EventRule struct {
	ID          string
	Name        string
	EventType   string
	Description string
	Pattern     map[string]any
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
