package workspace

import "time"

const (
	DefaultGitTimeout    = 300 * time.Second
	DefaultRetentionDays = 7
	dirPrefix            = "project-"
)

// Config configures the working-copy manager.
type Config struct {
	BaseDir    string
	GitTimeout time.Duration
}

type PrepareInput struct {
	URL       string
	ProjectID int64
	Token     string
}

// RepoInfo describes the checked out state of a working copy.
type RepoInfo struct {
	Branch  string `json:"current_branch"`
	Commit  string `json:"latest_commit"`
	Message string `json:"latest_commit_message"`
}

type SweepResult struct {
	Count   int
	Bytes   int64
	Skipped int
}
