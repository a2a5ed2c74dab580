package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Title is the heading line used by notifications and comments.
func Title(jc JobContext) string {
	return fmt.Sprintf("AI Code Review Report - %s - %s", orUnknown(jc.ProjectName), orUnknown(jc.Title))
}

// Format renders rep as the markdown body posted to channels and merge request comments.
func Format(rep Report, jc JobContext) string {
	var b strings.Builder

	b.WriteString("# 🤖 AI Code Review Report\n\n")
	writeJobInfo(&b, jc)
	fmt.Fprintf(&b, "- **Score**: %d/100\n", rep.Score)
	fmt.Fprintf(&b, "- **Issues**: %d", len(rep.Issues))
	if len(rep.Issues) > 0 {
		parts := make([]string, 0, len(Severities))
		for _, s := range Severities {
			if n := rep.Count(s); n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", s, n))
			}
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
	if secs, ok := rep.Metadata["duration_seconds"].(float64); ok {
		fmt.Fprintf(&b, "- **Duration**: %.1fs\n", secs)
	}
	if rep.IsMock() {
		b.WriteString("- **Mode**: mock\n")
	}

	fmt.Fprintf(&b, "\n## Summary\n\n%s\n", rep.Summary)

	if len(rep.Issues) > 0 {
		b.WriteString("\n## Issues\n\n")
		for i, is := range rep.Issues {
			fmt.Fprintf(&b, "%d. %s **%s**", i+1, is.Severity.emoji(), is.Title)
			if is.File != "" {
				fmt.Fprintf(&b, " (`%s:%d`)", is.File, is.Line)
			}
			b.WriteString("\n")
		}
	}

	if rep.Content != "" {
		fmt.Fprintf(&b, "\n## Details\n\n%s\n", rep.Content)
	}
	return b.String()
}

// ErrorReport renders the notice posted when a review could not be produced.
func ErrorReport(jc JobContext, err error) string {
	at := jc.Time
	if at.IsZero() {
		at = time.Now()
	}
	kind, hint := classify(err)

	var b strings.Builder
	b.WriteString("# ❌ AI Code Review Failed\n\n")
	writeJobInfo(&b, jc)
	fmt.Fprintf(&b, "- **Error type**: %s\n", kind)
	fmt.Fprintf(&b, "- **Time**: %s\n", at.Format(timeLayout))
	fmt.Fprintf(&b, "\n## Details\n\n```\n%s\n```\n", errText(err))
	fmt.Fprintf(&b, "\n## Suggestion\n\n%s\n", hint)
	return b.String()
}

func writeJobInfo(b *strings.Builder, jc JobContext) {
	fmt.Fprintf(b, "- **Project**: %s\n", orUnknown(jc.ProjectName))
	if jc.WebURL != "" {
		fmt.Fprintf(b, "- **Merge request**: [!%d %s](%s)\n", jc.ChangeRef, jc.Title, jc.WebURL)
	} else {
		fmt.Fprintf(b, "- **Merge request**: !%d %s\n", jc.ChangeRef, jc.Title)
	}
	fmt.Fprintf(b, "- **Author**: %s\n", orUnknown(jc.Author))
	if jc.SourceBranch != "" || jc.TargetBranch != "" {
		fmt.Fprintf(b, "- **Branch**: %s → %s\n", orUnknown(jc.SourceBranch), orUnknown(jc.TargetBranch))
	}
	if jc.FileCount > 0 {
		fmt.Fprintf(b, "- **Files**: %d\n", jc.FileCount)
	}
	if jc.Executor != "" {
		fmt.Fprintf(b, "- **Executor**: %s\n", jc.Executor)
	}
}

func classify(err error) (string, string) {
	var (
		parseErr *model.ParseError
		cfgErr   *model.ConfigError
		extErr   *model.ExternalCallError
	)
	switch {
	case err == nil:
		return "unknown", "Check the service logs for this job."
	case model.IsTimeout(err):
		return "timeout", "The reviewer did not finish in time. Split the merge request or raise the executor timeout."
	case errors.As(err, &parseErr):
		return "parse_error", "The reviewer output could not be read. Check the executor version and its output format."
	case errors.As(err, &cfgErr):
		return "configuration", "Fix the configuration value named above and trigger the review again."
	case errors.As(err, &extErr):
		return "external_call", "A remote service failed. Check its availability and credentials, then retry."
	default:
		return "execution", "Check the executor installation and the working copy, then retry."
	}
}

func errText(err error) string {
	if err == nil {
		return unknown
	}
	return err.Error()
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
