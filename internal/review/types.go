package review

import "code-review-pipeline/internal/model"

type OpenInput struct {
	ProjectID    int64
	ChangeRef    int64
	Title        string
	SourceBranch string
	TargetBranch string
	Author       string
	RequestID    string
}

type CompleteInput struct {
	ID            string
	Content       string
	Score         *int
	FilesReviewed []string
	TotalFiles    int
	RawOutput     string
	Executor      string
	IsMock        bool
}

type FailInput struct {
	ID           string
	ErrorMessage string
	RawOutput    string
	Executor     string
}

type ListInput struct {
	ProjectID int64
	Status    model.JobStatus
	Limit     int
	Offset    int
}

type ListOutput struct {
	Jobs   []model.ReviewJob
	Total  int
	Limit  int
	Offset int
}

type StatsOutput struct {
	Total        int
	ByStatus     map[model.JobStatus]int
	AverageScore *float64
	Notified     int
}
