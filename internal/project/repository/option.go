package repository

import "time"

type CreateProjectOptions struct {
	ID        int64
	Name      string
	Path      string
	URL       string
	Namespace string
	SeenAt    time.Time
}

type ListProjectsOptions struct {
	ReviewEnabled *bool
	Limit         int
	Offset        int
}

// TouchProjectOptions refreshes identity fields and the last event time.
type TouchProjectOptions struct {
	ID     int64
	Name   string
	Path   string
	URL    string
	SeenAt time.Time
}

type ProjectCounts struct {
	Total           int
	ReviewEnabled   int
	CommentsEnabled int
	ActiveSince     int
}
