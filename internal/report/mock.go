package report

import (
	"fmt"
	"strings"
)

// MockInput is the change data embedded in a canned report.
type MockInput struct {
	ProjectName  string
	Title        string
	Author       string
	FileCount    int
	ChangesCount int
}

// Mock renders a canned report without running a reviewer.
func Mock(in MockInput) Report {
	var b strings.Builder
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "Mock review of \"%s\" in %s by %s: %d files, %d changes. No reviewer was run.\n\n",
		in.Title, in.ProjectName, in.Author, in.FileCount, in.ChangesCount)
	b.WriteString("## Findings\n\n")
	b.WriteString("### 1. Consider adding tests for the changed code\n")
	b.WriteString("🟡 Medium: new branches in the change are not covered by tests.\n\n")
	b.WriteString("### 2. Document public functions\n")
	b.WriteString("🟢 Low: a few exported identifiers have no doc comment.\n\n")
	fmt.Fprintf(&b, "Score: %d\n", MockScore)

	content := b.String()
	return Report{
		Content: strings.TrimSpace(content),
		Summary: fmt.Sprintf("Mock review of \"%s\": %d files, %d changes.", in.Title, in.FileCount, in.ChangesCount),
		Score:   MockScore,
		Issues: []Issue{
			{Severity: SeverityMedium, Title: "Consider adding tests for the changed code"},
			{Severity: SeverityLow, Title: "Document public functions"},
		},
		Metadata: map[string]any{
			"is_mock":      true,
			"score":        MockScore,
			"issues_found": 2,
			"files":        in.FileCount,
			"changes":      in.ChangesCount,
		},
	}
}
