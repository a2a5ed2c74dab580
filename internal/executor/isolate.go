package executor

import (
	"fmt"
	"os"
	"path/filepath"
)

// Home is a throwaway HOME directory for one reviewer run.
type Home struct {
	Dir string
}

// NewHome creates a temp home and writes files (relative path to content) into it.
// The caller must Close it.
func NewHome(prefix string, files map[string]string) (*Home, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("executor: create isolated home: %w", err)
	}
	h := &Home{Dir: dir}
	for rel, content := range files {
		if content == "" {
			continue
		}
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			h.Close()
			return nil, fmt.Errorf("executor: create %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			h.Close()
			return nil, fmt.Errorf("executor: write %s: %w", rel, err)
		}
	}
	return h, nil
}

// Env returns base with HOME and the XDG dirs pointing into the isolated home.
func (h *Home) Env(base []string) []string {
	env := setEnv(base, "HOME", h.Dir)
	env = setEnv(env, "XDG_CONFIG_HOME", filepath.Join(h.Dir, ".config"))
	return setEnv(env, "XDG_DATA_HOME", filepath.Join(h.Dir, ".local", "share"))
}

// Close removes the home directory.
func (h *Home) Close() error {
	return os.RemoveAll(h.Dir)
}
