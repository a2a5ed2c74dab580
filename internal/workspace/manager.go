package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"code-review-pipeline/pkg/log"
)

// Manager keeps one working copy per project under a base directory.
type Manager struct {
	base  string
	git   Runner
	l     log.Logger
	now   func() time.Time
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a Manager. A nil runner uses the git binary.
func New(cfg Config, runner Runner, l log.Logger) (*Manager, error) {
	if cfg.BaseDir == "" {
		return nil, ErrBaseDirRequired
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create base dir: %w", err)
	}
	if runner == nil {
		runner = NewExecRunner(cfg.GitTimeout)
	}
	return &Manager{
		base:  cfg.BaseDir,
		git:   runner,
		l:     l,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}, nil
}

// Path returns the working copy directory of a project.
func (m *Manager) Path(projectID int64) string {
	return filepath.Join(m.base, dirPrefix+strconv.FormatInt(projectID, 10))
}

func (m *Manager) lockFor(projectID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lk, ok := m.locks[projectID]
	if !ok {
		lk = &sync.Mutex{}
		m.locks[projectID] = lk
	}
	return lk
}

// Lock serializes work on one project's working copy. Call the returned func to release.
func (m *Manager) Lock(projectID int64) func() {
	lk := m.lockFor(projectID)
	lk.Lock()
	return lk.Unlock
}

// Prepare refreshes the existing working copy or clones a fresh one.
// The caller holds the project lock.
func (m *Manager) Prepare(ctx context.Context, in PrepareInput) (string, error) {
	if in.URL == "" {
		return "", ErrURLRequired
	}
	path := m.Path(in.ProjectID)

	if _, err := os.Stat(path); err == nil {
		err := m.refresh(ctx, path)
		if err == nil {
			m.touch(path)
			return path, nil
		}
		m.l.Warnf(ctx, "workspace.Prepare: refresh of %s failed, re-cloning: %v", path, MaskToken(err.Error(), in.Token))
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("workspace: remove stale copy: %w", err)
		}
	}

	cloneURL := AuthenticatedURL(in.URL, in.Token)
	m.l.Infof(ctx, "workspace.Prepare: cloning %s into %s", MaskToken(cloneURL, in.Token), path)
	if _, err := m.git.Run(ctx, m.base, "clone", "--depth", "1", "--no-single-branch", cloneURL, path); err != nil {
		os.RemoveAll(path)
		return "", fmt.Errorf("%w: %s", ErrCloneFailed, MaskToken(err.Error(), in.Token))
	}
	return path, nil
}

// refresh discards local changes and fetches. The first failing step is returned.
func (m *Manager) refresh(ctx context.Context, path string) error {
	for _, args := range [][]string{
		{"reset", "--hard"},
		{"clean", "-fd"},
		{"fetch", "--all", "--prune"},
	} {
		if _, err := m.git.Run(ctx, path, args...); err != nil {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
	}
	return nil
}

func (m *Manager) touch(path string) {
	now := m.now()
	os.Chtimes(path, now, now)
}

// Checkout switches the working copy to branch, creating it from origin when needed.
func (m *Manager) Checkout(ctx context.Context, path, branch string) error {
	if _, err := m.git.Run(ctx, path, "checkout", branch); err == nil {
		if _, err := m.git.Run(ctx, path, "pull"); err != nil {
			m.l.Warnf(ctx, "workspace.Checkout: pull %s: %v", branch, err)
		}
		return nil
	}
	if _, err := m.git.Run(ctx, path, "checkout", "-b", branch, "origin/"+branch); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCheckoutFailed, branch, err)
	}
	return nil
}

// DiffRange returns "<merge-base>..HEAD" against origin/target, or "HEAD~1..HEAD"
// when no merge base can be found.
func (m *Manager) DiffRange(ctx context.Context, path, target string) string {
	const fallback = "HEAD~1..HEAD"

	current, err := m.git.Run(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		m.l.Warnf(ctx, "workspace.DiffRange: current branch: %v", err)
		return fallback
	}
	base, err := m.git.Run(ctx, path, "merge-base", "origin/"+target, current)
	if err != nil || base == "" {
		m.l.Warnf(ctx, "workspace.DiffRange: no merge base with origin/%s, using %s", target, fallback)
		return fallback
	}
	return base + "..HEAD"
}

// Info reports branch, commit and commit message. Unreadable fields are "unknown".
func (m *Manager) Info(ctx context.Context, path string) RepoInfo {
	read := func(args ...string) string {
		out, err := m.git.Run(ctx, path, args...)
		if err != nil {
			return "unknown"
		}
		return out
	}
	return RepoInfo{
		Branch:  read("rev-parse", "--abbrev-ref", "HEAD"),
		Commit:  read("rev-parse", "HEAD"),
		Message: read("log", "-1", "--pretty=%B"),
	}
}

// Sweep removes working copies untouched for retentionDays. Copies whose
// project lock is held are skipped.
func (m *Manager) Sweep(ctx context.Context, retentionDays int) (SweepResult, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := m.now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(m.base)
	if err != nil {
		if os.IsNotExist(err) {
			return SweepResult{}, nil
		}
		return SweepResult{}, fmt.Errorf("workspace: read base dir: %w", err)
	}

	var res SweepResult
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(e.Name(), dirPrefix), 10, 64)
		if err != nil {
			continue
		}

		lk := m.lockFor(id)
		if !lk.TryLock() {
			res.Skipped++
			continue
		}
		path := filepath.Join(m.base, e.Name())
		size := dirSize(path)
		err = os.RemoveAll(path)
		lk.Unlock()
		if err != nil {
			m.l.Errorf(ctx, "workspace.Sweep: remove %s: %v", path, err)
			continue
		}
		res.Count++
		res.Bytes += size
		m.l.Infof(ctx, "workspace.Sweep: removed %s (%.2f MB)", e.Name(), float64(size)/1024/1024)
	}
	return res, nil
}

func dirSize(path string) int64 {
	var total int64
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
