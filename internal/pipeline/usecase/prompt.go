package usecase

import (
	"strconv"
	"strings"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/report"
)

// buildPrompt renders the project template, or the built-in prompt for focus.
func buildPrompt(custom, focus string, jc report.JobContext, diffRange string) string {
	tmpl := strings.TrimSpace(custom)
	if tmpl == "" {
		return executor.Prompt(focus)
	}
	r := strings.NewReplacer(
		"{project_name}", jc.ProjectName,
		"{title}", jc.Title,
		"{author}", jc.Author,
		"{source_branch}", jc.SourceBranch,
		"{target_branch}", jc.TargetBranch,
		"{mr_iid}", strconv.FormatInt(jc.ChangeRef, 10),
		"{file_count}", strconv.Itoa(jc.FileCount),
		"{diff_range}", diffRange,
	)
	return r.Replace(tmpl)
}
