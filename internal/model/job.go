package model

import "time"

// JobStatus is the lifecycle state of a ReviewJob.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further status change is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// CanTransition reports whether from -> to moves the job forward.
func CanTransition(from, to JobStatus) bool {
	switch from {
	case JobPending:
		return to == JobProcessing || to == JobFailed
	case JobProcessing:
		return to == JobCompleted || to == JobFailed
	default:
		return false
	}
}

// ReviewJob is the persisted record of one review of one change.
type ReviewJob struct {
	ID                 string
	ProjectID          int64
	ChangeRef          int64
	Title              string
	SourceBranch       string
	TargetBranch       string
	Author             string
	Status             JobStatus
	Content            string
	Score              *int
	FilesReviewed      []string
	TotalFiles         int
	ErrorMessage       string
	RawOutput          string
	Executor           string
	IsMock             bool
	NotificationSent   bool
	NotificationResult *DispatchSummary
	RequestID          string
	CreatedAt          time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// Key identifies the change a job reviews.
func (j ReviewJob) Key() JobKey {
	return JobKey{ProjectID: j.ProjectID, ChangeRef: j.ChangeRef}
}

// JobKey is the uniqueness key of a ReviewJob.
type JobKey struct {
	ProjectID int64
	ChangeRef int64
}
