package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/internal/model"
)

const sampleOutput = `## Summary
Two problems found in the handler.

### 🔴 Critical
### 1. SQL injection in query builder
User input is concatenated in internal/db/query.go:42.

### 🟡 Medium
**2. Missing error check**
The error from Close is ignored.

Score: 70`

func TestParse_Sample(t *testing.T) {
	rep := Parse(sampleOutput, nil)

	require.Len(t, rep.Issues, 2)
	assert.Equal(t, SeverityCritical, rep.Issues[0].Severity)
	assert.Equal(t, "SQL injection in query builder", rep.Issues[0].Title)
	assert.Equal(t, "internal/db/query.go", rep.Issues[0].File)
	assert.Equal(t, 42, rep.Issues[0].Line)
	assert.NotContains(t, rep.Issues[0].Description, "Medium")

	assert.Equal(t, SeverityMedium, rep.Issues[1].Severity)
	assert.Equal(t, "Missing error check", rep.Issues[1].Title)

	// 100 - 20 - 5 = 75, blended with the written 70.
	assert.Equal(t, 72, rep.Score)
	assert.Equal(t, "Two problems found in the handler.", rep.Summary)

	require.Len(t, rep.SecurityHits, 1)
	assert.Equal(t, "SQL injection", rep.SecurityHits[0].Keyword)
	assert.Equal(t, 5, rep.SecurityHits[0].Line)
	assert.Contains(t, rep.SecurityHits[0].Context, "query.go:42")
	assert.Empty(t, rep.PerformanceHits)

	assert.Equal(t, 2, rep.Metadata["total_issues"])
	assert.Equal(t, 1, rep.Metadata["critical_issues"])
}

func TestParse_Deterministic(t *testing.T) {
	a := Parse(sampleOutput, map[string]any{"score": 60.0})
	b := Parse(sampleOutput, map[string]any{"score": 60.0})
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, len(a.Issues), len(b.Issues))
	assert.Equal(t, a, b)
}

func TestParse_ScoreBlend(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		meta map[string]any
		want int
	}{
		{"no issues no explicit", "All good.", nil, 100},
		{"written and structured", "Looks fine.\n评分: 90", map[string]any{"score": 80}, 90},
		{"structured only", "Looks fine.", map[string]any{"score": "50"}, 75},
		{"clamped at zero", strings.Repeat("### 1. Critical leak\n", 6), nil, 0},
		{"clamped at max", "Score: 400", nil, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.raw, tc.meta).Score)
		})
	}
}

func TestParse_SummaryFallback(t *testing.T) {
	assert.Equal(t, "line one line two", Parse("# Title\nline one\n\nline two", nil).Summary)
	assert.Equal(t, defaultSummary, Parse("", nil).Summary)

	long := Parse(strings.Repeat("a", 300), nil).Summary
	assert.Equal(t, strings.Repeat("a", summaryMaxRunes)+"...", long)
}

func TestParse_Metadata(t *testing.T) {
	rep := Parse("ok", map[string]any{"duration_ms": 1500.0, "total_cost_usd": 0.25, "num_turns": 3})
	assert.Equal(t, 1.5, rep.Metadata["duration_seconds"])
	assert.Equal(t, 0.25, rep.Metadata["total_cost"])
	assert.Equal(t, 3, rep.Metadata["num_turns"])
}

func TestParse_PerformanceHitOncePerLine(t *testing.T) {
	rep := Parse("fine\nadd a cache and an index here\nfine", nil)
	require.Len(t, rep.PerformanceHits, 1)
	assert.Equal(t, "fine\nadd a cache and an index here\nfine", rep.PerformanceHits[0].Context)
}

func TestTruncate(t *testing.T) {
	body := strings.Repeat("x", 20)
	assert.Equal(t, body, Truncate(body, 20, "..."))
	assert.Equal(t, body, Truncate(body, 25, "..."))

	got := Truncate(body, 8, "[cut]")
	assert.Equal(t, strings.Repeat("x", 8)+"[cut]", got)

	assert.Equal(t, "评审…", Truncate("评审报告", 2, "…"))
}

func TestMock(t *testing.T) {
	rep := Mock(MockInput{ProjectName: "demo", Title: "Add cache", Author: "dev", FileCount: 3, ChangesCount: 5})
	assert.True(t, rep.IsMock())
	assert.Equal(t, MockScore, rep.Score)
	assert.Len(t, rep.Issues, 2)
	assert.Contains(t, rep.Content, `"Add cache"`)
	assert.Contains(t, rep.Content, "demo")
	assert.Contains(t, rep.Content, "3 files, 5 changes")

	title := `Fix "quoted" path C:\tmp`
	rep = Mock(MockInput{ProjectName: "demo", Title: title, Author: "dev"})
	assert.Contains(t, rep.Content, title)
	assert.Contains(t, rep.Summary, title)
}

func TestFormat(t *testing.T) {
	rep := Parse(sampleOutput, nil)
	out := Format(rep, JobContext{ProjectName: "demo", Title: "Add cache", ChangeRef: 7, Author: "dev", SourceBranch: "feat", TargetBranch: "main"})

	assert.Contains(t, out, "**Project**: demo")
	assert.Contains(t, out, "!7 Add cache")
	assert.Contains(t, out, "**Score**: 72/100")
	assert.Contains(t, out, "(critical 1, medium 1)")
	assert.Contains(t, out, "`internal/db/query.go:42`")
	assert.Contains(t, out, "## Details")
	assert.Equal(t, "AI Code Review Report - demo - Add cache", Title(JobContext{ProjectName: "demo", Title: "Add cache"}))
}

func TestErrorReport(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	jc := JobContext{ProjectName: "demo", ChangeRef: 7, Time: at}

	out := ErrorReport(jc, &model.TimeoutError{Op: "executor", Bound: time.Minute})
	assert.Contains(t, out, "**Error type**: timeout")
	assert.Contains(t, out, "2026-01-02 03:04:05")
	assert.Contains(t, out, "executor: timeout after 1m0s")

	out = ErrorReport(jc, &model.ParseError{Raw: "{", Err: errors.New("unexpected end")})
	assert.Contains(t, out, "**Error type**: parse_error")

	out = ErrorReport(jc, errors.New("boom"))
	assert.Contains(t, out, "**Error type**: execution")
}
