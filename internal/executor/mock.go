package executor

import (
	"context"
	"fmt"
)

// mockExecutor never starts a process. The pipeline renders a canned report
// instead of calling Run when it sees ProviderMock; Run exists for direct callers.
type mockExecutor struct{}

func (mockExecutor) Name() string { return ProviderMock }

func (mockExecutor) Run(_ context.Context, in RunInput) (Result, error) {
	content := fmt.Sprintf("## Summary\nMock review of %s. No issues found.\n\nScore: 85", rangeOrHead(in.DiffRange))
	return Result{
		Success:  true,
		Content:  content,
		Metadata: map[string]any{"is_mock": true, "score": 85},
		Raw:      content,
	}, nil
}

func rangeOrHead(r string) string {
	if r == "" {
		return "HEAD"
	}
	return r
}
