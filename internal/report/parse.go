package report

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var severityPatterns = []struct {
	severity Severity
	re       *regexp.Regexp
}{
	{SeverityCritical, regexp.MustCompile(`(?i)🔴\s*严重|严重安全风险|\bcritical\b`)},
	{SeverityHigh, regexp.MustCompile(`(?i)🟠\s*高危|\bhigh\b`)},
	{SeverityMedium, regexp.MustCompile(`(?i)🟡\s*中危|次要|\bmedium\b`)},
	{SeverityLow, regexp.MustCompile(`(?i)🟢\s*低危|建议|\blow\b`)},
}

var (
	titleRe       = regexp.MustCompile(`^[#*]+\s*\d+[.、]\s*(.+)`)
	boldTitleRe   = regexp.MustCompile(`^\*\*(\d+)\.\s*(.+)\*\*`)
	fileLineRe    = regexp.MustCompile(`([\w./-]+\.(?:go|py|js|jsx|ts|tsx|java|kt|rb|php|cs|c|cc|cpp|h|hpp|rs|swift|scala|sql|sh|vue|html|css|yaml|yml|json|xml)):(\d+)`)
	explicitScore = regexp.MustCompile(`(?i)(?:评分|score)\s*[：:]\s*(\d+)`)
	summaryHeadRe = regexp.MustCompile(`^##\s*(摘要|Summary|总结)\s*$`)
	headingRe     = regexp.MustCompile(`^#+\s`)
)

const titleTrimChars = "*# "

var securityKeywords = []string{
	"SQL注入", "XSS", "CSRF", "命令注入", "路径遍历", "API Key", "Token", "密码", "Secret",
	"硬编码", "认证", "授权", "权限", "加密", "明文",
	"SQL injection", "command injection", "path traversal", "password", "hardcoded",
	"authentication", "authorization", "permission", "encryption", "plaintext",
}

var performanceKeywords = []string{
	"N+1", "性能", "优化", "缓存", "索引", "复杂度", "内存泄漏", "并发", "异步",
	"performance", "optimiz", "cache", "index", "complexity", "memory leak", "concurren", "async",
}

// Parse extracts issues, score, summary and keyword hits from reviewer output.
// It is a best-effort heuristic; the same input always yields the same Report.
// meta is the executor metadata; a numeric "score" in it takes part in the score blend.
func Parse(raw string, meta map[string]any) Report {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	rep := Report{
		Content: strings.TrimSpace(raw),
		Issues:  parseIssues(lines),
	}
	rep.Summary = parseSummary(lines)
	rep.SecurityHits = keywordHits(lines, securityKeywords)
	rep.PerformanceHits = keywordHits(lines, performanceKeywords)
	rep.Score = blendScore(heuristicScore(rep.Issues), explicitScores(raw, meta))
	rep.Metadata = buildMetadata(rep, meta)
	return rep
}

func parseIssues(lines []string) []Issue {
	var (
		issues  []Issue
		current *Issue
	)
	severity := SeverityMedium

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, p := range severityPatterns {
			if p.re.MatchString(line) {
				severity = p.severity
				break
			}
		}

		if title, ok := matchTitle(line); ok {
			if current != nil {
				issues = append(issues, *current)
			}
			current = &Issue{Severity: severity, Title: title}
		} else if current != nil && !headingRe.MatchString(line) {
			if current.Description != "" {
				current.Description += "\n"
			}
			current.Description += line
		}

		if current != nil && current.File == "" {
			if m := fileLineRe.FindStringSubmatch(line); m != nil {
				current.File = m[1]
				current.Line, _ = strconv.Atoi(m[2])
			}
		}
	}
	if current != nil {
		issues = append(issues, *current)
	}
	return issues
}

func matchTitle(line string) (string, bool) {
	if m := boldTitleRe.FindStringSubmatch(line); m != nil {
		return strings.Trim(m[2], titleTrimChars), true
	}
	if m := titleRe.FindStringSubmatch(line); m != nil {
		title := strings.Trim(m[1], titleTrimChars)
		return title, title != ""
	}
	return "", false
}

func heuristicScore(issues []Issue) int {
	score := MaxScore
	for _, is := range issues {
		score -= is.Severity.Penalty()
	}
	return score
}

// explicitScores collects the first score written in the text and the
// structured score from executor metadata, in that order.
func explicitScores(raw string, meta map[string]any) []int {
	var out []int
	if m := explicitScore.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, n)
		}
	}
	if n, ok := numeric(meta["score"]); ok {
		out = append(out, n)
	}
	return out
}

func blendScore(heuristic int, explicit []int) int {
	sum := heuristic
	for _, n := range explicit {
		sum += n
	}
	return clamp(sum / (len(explicit) + 1))
}

func clamp(n int) int {
	if n < MinScore {
		return MinScore
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}

func numeric(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return int(math.Round(n)), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func parseSummary(lines []string) string {
	for i, line := range lines {
		if !summaryHeadRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		var body []string
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				if len(body) > 0 {
					break
				}
				continue
			}
			if strings.HasPrefix(next, "##") {
				break
			}
			body = append(body, next)
		}
		if len(body) > 0 {
			return strings.Join(body, "\n")
		}
	}

	var first []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || headingRe.MatchString(line) {
			continue
		}
		first = append(first, line)
		if len(first) == summaryMaxLines {
			break
		}
	}
	if len(first) == 0 {
		return defaultSummary
	}
	return Truncate(strings.Join(first, " "), summaryMaxRunes, "...")
}

func keywordHits(lines []string, keywords []string) []KeywordHit {
	var hits []KeywordHit
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				continue
			}
			lo := max(0, i-keywordWindow)
			hi := min(len(lines), i+keywordWindow+1)
			hits = append(hits, KeywordHit{
				Keyword: kw,
				Line:    i + 1,
				Context: strings.TrimSpace(strings.Join(lines[lo:hi], "\n")),
			})
			break
		}
	}
	return hits
}

func buildMetadata(rep Report, meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta)+8)
	for k, v := range meta {
		out[k] = v
	}
	out["score"] = rep.Score
	out["total_issues"] = len(rep.Issues)
	out["critical_issues"] = rep.Count(SeverityCritical)
	out["security_issues"] = len(rep.SecurityHits)
	out["performance_issues"] = len(rep.PerformanceHits)
	if ms, ok := numeric(meta["duration_ms"]); ok {
		out["duration_seconds"] = float64(ms) / 1000
	}
	if cost, ok := meta["total_cost_usd"].(float64); ok {
		out["total_cost"] = cost
	}
	return out
}

// Truncate returns s unchanged when it has at most limit runes, else its
// first limit runes followed by marker.
func Truncate(s string, limit int, marker string) string {
	if limit < 0 {
		limit = 0
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + marker
}
