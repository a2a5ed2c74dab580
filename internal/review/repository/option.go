package repository

import "code-review-pipeline/internal/model"

type OpenJobOptions struct {
	ProjectID    int64
	ChangeRef    int64
	Title        string
	SourceBranch string
	TargetBranch string
	Author       string
	RequestID    string
}

// GetOneJobOptions selects by ID, or by (ProjectID, ChangeRef) when ID is empty.
type GetOneJobOptions struct {
	ID        string
	ProjectID int64
	ChangeRef int64
}

type ListJobsOptions struct {
	ProjectID int64
	Status    model.JobStatus
	Limit     int
	Offset    int
}

// TransitionJobOptions moves a job From -> To. Result fields are written only
// when To is terminal.
type TransitionJobOptions struct {
	ID            string
	From          model.JobStatus
	To            model.JobStatus
	Content       string
	Score         *int
	FilesReviewed []string
	TotalFiles    int
	ErrorMessage  string
	RawOutput     string
	Executor      string
	IsMock        bool
}

type JobCounts struct {
	Total        int
	ByStatus     map[model.JobStatus]int
	AverageScore *float64
	Notified     int
}
