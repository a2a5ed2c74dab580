package report

import "time"

// Severity is the importance tier of one finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every tier from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Penalty is the number of points one finding of s takes off a perfect score.
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

func (s Severity) emoji() string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityHigh:
		return "🟠"
	case SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

const (
	MaxScore = 100
	MinScore = 0

	// MockScore is the fixed score of a canned report.
	MockScore = 80

	defaultSummary  = "Code review completed."
	summaryMaxRunes = 200
	summaryMaxLines = 10
	keywordWindow   = 1
	unknown         = "unknown"
)

// Issue is one finding extracted from reviewer output.
type Issue struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
}

// KeywordHit is a line of reviewer output mentioning a tracked keyword.
type KeywordHit struct {
	Keyword string `json:"keyword"`
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// Report is the normalized form of one review.
type Report struct {
	Content         string
	Summary         string
	Score           int
	Issues          []Issue
	SecurityHits    []KeywordHit
	PerformanceHits []KeywordHit
	Metadata        map[string]any
}

// Count returns how many issues have severity s.
func (r Report) Count(s Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == s {
			n++
		}
	}
	return n
}

// IsMock reports whether r was rendered without running a reviewer.
func (r Report) IsMock() bool {
	v, _ := r.Metadata["is_mock"].(bool)
	return v
}

// JobContext describes the change a report belongs to.
type JobContext struct {
	ProjectName  string
	Title        string
	Author       string
	SourceBranch string
	TargetBranch string
	ChangeRef    int64
	WebURL       string
	Executor     string
	FileCount    int
	Time         time.Time
}
