package usecase

import (
	"path"
	"strings"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/pkg/gitlab"
)

// reviewable drops deleted files, renames without content changes, ignored
// paths and excluded file types. The result keeps the order of changes.
func reviewable(p model.Project, changes []gitlab.Change) []gitlab.Change {
	exts := make(map[string]struct{}, len(p.ExcludeFileTypes))
	for _, e := range p.ExcludeFileTypes {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts[e] = struct{}{}
		}
	}

	out := make([]gitlab.Change, 0, len(changes))
	for _, c := range changes {
		if c.DeletedFile {
			continue
		}
		if c.RenamedFile && strings.TrimSpace(c.Diff) == "" {
			continue
		}
		file := c.NewPath
		if file == "" {
			file = c.OldPath
		}
		if ignored(file, p.IgnorePatterns) {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(file), "."))
		if _, ok := exts[ext]; ok && ext != "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ignored matches file against glob patterns. A pattern is tried against the
// full path and the base name; a trailing slash marks a directory prefix.
func ignored(file string, patterns []string) bool {
	base := path.Base(file)
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		if strings.HasSuffix(pat, "/") {
			if strings.HasPrefix(file, pat) || strings.Contains(file, "/"+pat) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pat, file); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}

func paths(changes []gitlab.Change) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.NewPath != "" {
			out = append(out, c.NewPath)
		} else {
			out = append(out, c.OldPath)
		}
	}
	return out
}
