package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "review.db") + "\n" +
		"workspace:\n  base_dir: " + filepath.Join(dir, "repos") + "\n" +
		"logger:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMockCommand(t *testing.T) {
	out, err := execute(t, "-c", writeConfig(t), "mock", "--title", "Add cache", "--files", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Add cache")
	assert.Contains(t, out, "Score")
}

func TestRulesCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "-c", cfg, "rules", "ensure-defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	seeds := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(seeds, []byte(`
- name: hotfix only
  event_type: merge_request
  pattern:
    object_attributes:
      target_branch: hotfix
`), 0o600))
	out, err = execute(t, "-c", cfg, "rules", "import", seeds)
	require.NoError(t, err)
	assert.Contains(t, out, "hotfix only")

	out, err = execute(t, "-c", cfg, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hotfix only")
	assert.Contains(t, out, "Merge request opened")
}

func TestJobsCommand_Empty(t *testing.T) {
	out, err := execute(t, "-c", writeConfig(t), "jobs", "--status", "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 0 jobs")
}

func TestRulesImport_BadFile(t *testing.T) {
	seeds := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(seeds, []byte("- description: nameless\n"), 0o600))
	_, err := execute(t, "-c", writeConfig(t), "rules", "import", seeds)
	assert.Error(t, err)
}

func TestSweepCommand_EmptyBase(t *testing.T) {
	out, err := execute(t, "-c", writeConfig(t), "sweep", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 working copies")
}

func TestProbeCommand_Mock(t *testing.T) {
	out, err := execute(t, "-c", writeConfig(t), "probe")
	require.NoError(t, err)
	assert.Equal(t, "mock: available\n", out)
}
