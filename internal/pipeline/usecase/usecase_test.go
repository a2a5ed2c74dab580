package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/report"
	"code-review-pipeline/internal/review"
	reviewSQLite "code-review-pipeline/internal/review/repository/sqlite"
	reviewUC "code-review-pipeline/internal/review/usecase"
	"code-review-pipeline/internal/store"
	"code-review-pipeline/pkg/gitlab"
	"code-review-pipeline/pkg/log"
)

type harness struct {
	uc       pipeline.UseCase
	projects *fakeProjects
	rules    *fakeRules
	reviews  *fakeReviews
	disp     *fakeDispatcher
	scm      *fakeSCM
	ws       *fakeWorkspace
	exe      *fakeExecutor
}

func enabledProject() model.Project {
	return model.Project{
		ID:             7,
		Name:           "demo",
		URL:            "https://git.example.com/team/demo.git",
		ReviewEnabled:  true,
		EnabledRuleIDs: []string{"rule-1"},
	}
}

func newHarness(t *testing.T, cfg pipeline.Config, exe *fakeExecutor) *harness {
	t.Helper()
	h := buildHarness(exe)
	h.uc = New(h.deps(h.reviews), cfg, log.NewNop())
	return h
}

// newStoredHarness runs the pipeline against the SQLite review store.
func newStoredHarness(t *testing.T, cfg pipeline.Config, exe *fakeExecutor) (*harness, review.UseCase) {
	t.Helper()
	l := log.NewNop()
	reviews := reviewUC.New(reviewSQLite.New(store.NewTestDB(t), l), l)
	h := buildHarness(exe)
	h.uc = New(h.deps(reviews), cfg, l)
	return h, reviews
}

func (h *harness) deps(reviews review.UseCase) Deps {
	return Deps{
		Projects:   h.projects,
		Rules:      h.rules,
		Reviews:    reviews,
		Dispatcher: h.disp,
		SCM:        h.scm,
		Workspace:  h.ws,
		Executor:   h.exe,
	}
}

func buildHarness(exe *fakeExecutor) *harness {
	return &harness{
		projects: &fakeProjects{p: enabledProject()},
		rules:    &fakeRules{matched: true},
		reviews:  newFakeReviews(),
		disp:     &fakeDispatcher{},
		scm: &fakeSCM{changes: []gitlab.Change{
			{NewPath: "main.go", Diff: "+package main"},
			{NewPath: "README.md", Diff: "+docs"},
		}},
		ws:  &fakeWorkspace{},
		exe: exe,
	}
}

// drain stops the pool so every queued job has finished.
func (h *harness) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.uc.Shutdown(ctx))
}

func mrEvent(iid int) model.Event {
	return model.Event{
		Source:    model.SourceGitLab,
		EventType: model.EventMergeRequest,
		Project:   model.EventProject{ID: 7, Name: "demo", HTTPURL: "https://git.example.com/team/demo.git"},
		Attributes: map[string]any{
			"iid":           float64(iid),
			"action":        "open",
			"title":         "Add login",
			"source_branch": "feature/login",
			"target_branch": "main",
		},
		Payload:   map[string]any{"object_kind": "merge_request"},
		User:      model.EventUser{Name: "Alice"},
		RequestID: "req-1",
	}
}

func TestHandle_SkipReasons(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(h *harness, ev *model.Event)
		reason string
	}{
		{"no project id", func(_ *harness, ev *model.Event) { ev.Project.ID = 0 }, model.SkipProjectUnknown},
		{"first sight", func(h *harness, _ *model.Event) { h.projects.p = model.Project{}; h.projects.created = true }, model.SkipReviewDisabled},
		{"review off", func(h *harness, _ *model.Event) { h.projects.p.ReviewEnabled = false }, model.SkipReviewDisabled},
		{"push event", func(_ *harness, ev *model.Event) { ev.EventType = model.EventPush }, model.SkipUnsupportedEvent},
		{"no rules", func(h *harness, _ *model.Event) { h.projects.p.EnabledRuleIDs = nil }, model.SkipNoRulesEnabled},
		{"no match", func(h *harness, _ *model.Event) { h.rules.matched = false }, model.SkipNoRuleMatched},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})
			ev := mrEvent(1)
			tc.mutate(h, &ev)

			out, err := h.uc.Handle(context.Background(), ev)
			require.NoError(t, err)
			assert.True(t, out.Skipped())
			assert.Equal(t, tc.reason, out.SkipReason)
			assert.Empty(t, out.JobID)
			h.drain(t)
			assert.Empty(t, h.reviews.jobs)
		})
	}
}

func TestHandle_MissingIIDIsIgnored(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})

	out, err := h.uc.Handle(context.Background(), mrEvent(0))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusIgnored, out.Status)
	assert.Equal(t, pipeline.ErrNoChangeRef.Error(), out.Detail)
	assert.Empty(t, out.JobID)
	h.drain(t)
	assert.Empty(t, h.reviews.jobs)
}

func TestHandle_MockRunCompletesAndNotifies(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})

	out, err := h.uc.Handle(context.Background(), mrEvent(3))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusQueued, out.Status)
	assert.Equal(t, "rule-1", out.RuleID)
	h.drain(t)

	assert.Equal(t, model.JobCompleted, h.reviews.status(out.JobID))
	require.Len(t, h.reviews.complete, 1)
	done := h.reviews.complete[0]
	assert.True(t, done.IsMock)
	require.NotNil(t, done.Score)
	assert.Equal(t, report.MockScore, *done.Score)
	assert.Equal(t, []string{"main.go", "README.md"}, done.FilesReviewed)
	assert.Contains(t, done.Content, "AI Code Review Report")

	assert.Empty(t, h.ws.prepared, "mock runs never touch the working copy")
	assert.Empty(t, h.exe.inputs)

	require.Equal(t, 1, h.disp.count())
	msg := h.disp.calls[0].Message
	assert.Equal(t, int64(3), msg.ChangeRef)
	assert.Equal(t, "AI Code Review Report - demo - Add login", msg.Subject)
	assert.True(t, h.reviews.notified[out.JobID].Success)
}

func TestHandle_CoalescesInFlightJob(t *testing.T) {
	h := newHarness(t, pipeline.Config{Workers: 1}, &fakeExecutor{name: executor.ProviderMock})
	h.scm.block = make(chan struct{})

	first, err := h.uc.Handle(context.Background(), mrEvent(3))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusQueued, first.Status)

	second, err := h.uc.Handle(context.Background(), mrEvent(3))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusCoalesced, second.Status)
	assert.Equal(t, model.SkipJobInFlight, second.SkipReason)

	close(h.scm.block)
	h.drain(t)
	assert.Len(t, h.reviews.jobs, 1)
	assert.Equal(t, model.JobCompleted, h.reviews.status(first.JobID))
}

func TestHandle_RearmsTerminalJob(t *testing.T) {
	h := newHarness(t, pipeline.Config{Workers: 1}, &fakeExecutor{name: executor.ProviderMock})
	ctx := context.Background()

	first, err := h.uc.Handle(ctx, mrEvent(3))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.reviews.status(first.JobID) == model.JobCompleted }, 5*time.Second, 10*time.Millisecond)

	second, err := h.uc.Handle(ctx, mrEvent(3))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusQueued, second.Status)
	assert.Equal(t, first.JobID, second.JobID)
	h.drain(t)
	assert.Len(t, h.reviews.complete, 2)
}

func TestHandle_QueueFullFailsJob(t *testing.T) {
	h := newHarness(t, pipeline.Config{Workers: 1, QueueSize: 1}, &fakeExecutor{name: executor.ProviderMock})
	h.scm.block = make(chan struct{})
	ctx := context.Background()

	running, err := h.uc.Handle(ctx, mrEvent(1))
	require.NoError(t, err)
	// wait until the worker has taken the first job off the queue
	require.Eventually(t, func() bool { return h.reviews.status(running.JobID) == model.JobProcessing }, 5*time.Second, 10*time.Millisecond)

	queued, err := h.uc.Handle(ctx, mrEvent(2))
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusQueued, queued.Status)

	rejected, err := h.uc.Handle(ctx, mrEvent(3))
	assert.ErrorIs(t, err, pipeline.ErrQueueFull)
	assert.Equal(t, pipeline.StatusRejected, rejected.Status)
	assert.Equal(t, model.JobFailed, h.reviews.status(rejected.JobID))
	failed, err := h.reviews.Detail(ctx, rejected.JobID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.ErrQueueFull.Error(), failed.ErrorMessage)

	close(h.scm.block)
	h.drain(t)
	assert.Equal(t, model.JobCompleted, h.reviews.status(running.JobID))
	assert.Equal(t, model.JobCompleted, h.reviews.status(queued.JobID))
}

func TestHandle_AfterShutdown(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})
	h.drain(t)

	out, err := h.uc.Handle(context.Background(), mrEvent(1))
	assert.ErrorIs(t, err, pipeline.ErrShuttingDown)
	assert.Equal(t, model.JobFailed, h.reviews.status(out.JobID))
}

func TestProcess_RunsReviewerWithCustomPrompt(t *testing.T) {
	exe := &fakeExecutor{
		name: executor.ProviderClaude,
		result: executor.Result{
			Success:  true,
			Content:  "## Summary\nLooks fine.\n\n### 1. Missing nil check\n🟡 Medium: handler.go:12 may dereference nil.\n\nScore: 90",
			Metadata: map[string]any{"duration_ms": float64(1500)},
			Raw:      "raw output",
		},
	}
	h := newHarness(t, pipeline.Config{ExecutorTimeout: time.Minute, GitToken: "secret"}, exe)
	h.projects.p.CustomPrompt = "Review {title} by {author} in {project_name}: {file_count} files, !{mr_iid}, {diff_range}"

	out, err := h.uc.Handle(context.Background(), mrEvent(4))
	require.NoError(t, err)
	h.drain(t)

	require.Len(t, h.ws.prepared, 1)
	assert.Equal(t, "https://git.example.com/team/demo.git", h.ws.prepared[0].URL)
	assert.Equal(t, "secret", h.ws.prepared[0].Token)
	assert.Equal(t, "feature/login", h.ws.branch)

	require.Len(t, exe.inputs, 1)
	in := exe.inputs[0]
	assert.Equal(t, "/work/project-7", in.WorkDir)
	assert.Equal(t, "origin/main...HEAD", in.DiffRange)
	assert.Equal(t, time.Minute, in.Timeout)
	assert.Equal(t, "Review Add login by Alice in demo: 2 files, !4, origin/main...HEAD", in.Prompt)

	assert.Equal(t, model.JobCompleted, h.reviews.status(out.JobID))
	done := h.reviews.complete[0]
	assert.False(t, done.IsMock)
	assert.Equal(t, "raw output", done.RawOutput)
	assert.Equal(t, executor.ProviderClaude, done.Executor)
	require.NotNil(t, done.Score)
	assert.Equal(t, 92, *done.Score, "heuristic 95 blended with explicit 90")
	assert.Equal(t, 1, h.disp.count())
}

func TestProcess_ReviewerFailureKeepsRawOutput(t *testing.T) {
	exe := &fakeExecutor{
		name:   executor.ProviderOpenCode,
		result: executor.Result{Raw: "stack trace"},
		err:    errReviewerCrashed,
	}
	h := newHarness(t, pipeline.Config{}, exe)

	out, err := h.uc.Handle(context.Background(), mrEvent(5))
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, model.JobFailed, h.reviews.status(out.JobID))
	require.Len(t, h.reviews.fail, 1)
	assert.Equal(t, "stack trace", h.reviews.fail[0].RawOutput)
	assert.Contains(t, h.reviews.fail[0].ErrorMessage, "status 2")
	assert.Zero(t, h.disp.count(), "failure reports are opt-in")
}

func TestProcess_ExecutorTimeout(t *testing.T) {
	exe := &fakeExecutor{
		name: executor.ProviderClaude,
		err:  &model.TimeoutError{Op: "claude", Bound: 5 * time.Second},
	}
	h := newHarness(t, pipeline.Config{}, exe)

	out, err := h.uc.Handle(context.Background(), mrEvent(5))
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, model.JobFailed, h.reviews.status(out.JobID))
	require.Len(t, h.reviews.fail, 1)
	assert.Equal(t, "claude: timeout after 5s", h.reviews.fail[0].ErrorMessage)
}

func TestProcess_JobDeadlineFailsStoredJob(t *testing.T) {
	exe := &fakeExecutor{name: executor.ProviderClaude, hang: true}
	h, reviews := newStoredHarness(t, pipeline.Config{JobTimeout: 200 * time.Millisecond, ExecutorTimeout: time.Minute}, exe)
	ctx := context.Background()

	out, err := h.uc.Handle(ctx, mrEvent(4))
	require.NoError(t, err)
	h.drain(t)

	job, err := reviews.Detail(ctx, out.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobFailed, job.Status)
	assert.Equal(t, "review job: timeout after 200ms", job.ErrorMessage)

	again, err := reviews.Open(ctx, review.OpenInput{ProjectID: 7, ChangeRef: 4})
	require.NoError(t, err, "a timed out job must not block the next review")
	assert.Equal(t, out.JobID, again.ID)
	assert.Equal(t, model.JobPending, again.Status)
}

func TestProcess_ExecutorPanicFailsStoredJob(t *testing.T) {
	exe := &fakeExecutor{name: executor.ProviderOpenCode, crash: "nil map write"}
	h, reviews := newStoredHarness(t, pipeline.Config{}, exe)
	ctx := context.Background()

	out, err := h.uc.Handle(ctx, mrEvent(6))
	require.NoError(t, err)
	h.drain(t)

	job, err := reviews.Detail(ctx, out.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobFailed, job.Status)
	assert.Equal(t, "panic: nil map write", job.ErrorMessage)

	_, err = reviews.Open(ctx, review.OpenInput{ProjectID: 7, ChangeRef: 6})
	require.NoError(t, err)
}

func TestProcess_FailureReportWhenEnabled(t *testing.T) {
	exe := &fakeExecutor{name: executor.ProviderClaude, result: executor.Result{Success: true, Content: "   "}}
	h := newHarness(t, pipeline.Config{NotifyOnFailure: true}, exe)

	out, err := h.uc.Handle(context.Background(), mrEvent(6))
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, model.JobFailed, h.reviews.status(out.JobID))
	require.Equal(t, 1, h.disp.count())
	msg := h.disp.calls[0].Message
	assert.True(t, strings.HasSuffix(msg.Subject, "(failed)"))
	assert.Contains(t, msg.Body, "parse_error")
	_, recorded := h.reviews.notified[out.JobID]
	assert.True(t, recorded)
}

func TestProcess_SourceControlFailure(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})
	h.scm.err = errReviewerCrashed

	out, err := h.uc.Handle(context.Background(), mrEvent(8))
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, model.JobFailed, h.reviews.status(out.JobID))
	assert.Contains(t, h.reviews.fail[0].ErrorMessage, "fetch merge request changes")
}

func TestProcess_EverythingFilteredOut(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderClaude})
	h.projects.p.ExcludeFileTypes = []string{".md", "go"}

	out, err := h.uc.Handle(context.Background(), mrEvent(9))
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, model.JobCompleted, h.reviews.status(out.JobID))
	done := h.reviews.complete[0]
	assert.Nil(t, done.Score)
	assert.Equal(t, noReviewableChanges, done.Content)
	assert.Equal(t, 2, done.TotalFiles)
	assert.Empty(t, h.exe.inputs)
	assert.Zero(t, h.disp.count())
}

func TestRedispatch(t *testing.T) {
	h := newHarness(t, pipeline.Config{}, &fakeExecutor{name: executor.ProviderMock})
	h.scm.block = make(chan struct{})
	ctx := context.Background()

	out, err := h.uc.Handle(ctx, mrEvent(3))
	require.NoError(t, err)

	_, err = h.uc.Redispatch(ctx, out.JobID)
	assert.ErrorIs(t, err, review.ErrJobNotCompleted)

	close(h.scm.block)
	h.drain(t)
	require.Equal(t, 1, h.disp.count())

	sum, err := h.uc.Redispatch(ctx, out.JobID)
	require.NoError(t, err)
	assert.True(t, sum.Success)
	require.Equal(t, 2, h.disp.count())
	assert.Equal(t, h.disp.calls[0].Message.Body, h.disp.calls[1].Message.Body)

	_, err = h.uc.Redispatch(ctx, "missing")
	assert.ErrorIs(t, err, review.ErrJobNotFound)
}

func TestReviewable(t *testing.T) {
	p := model.Project{
		ExcludeFileTypes: []string{"lock", ".PNG"},
		IgnorePatterns:   []string{"vendor/", "*_test.go", "docs/*.md"},
	}
	changes := []gitlab.Change{
		{NewPath: "cmd/main.go", Diff: "+x"},
		{NewPath: "old.go", DeletedFile: true},
		{OldPath: "a.go", NewPath: "b.go", RenamedFile: true},
		{OldPath: "c.go", NewPath: "d.go", RenamedFile: true, Diff: "+y"},
		{NewPath: "vendor/lib/x.go", Diff: "+z"},
		{NewPath: "pkg/x_test.go", Diff: "+t"},
		{NewPath: "docs/guide.md", Diff: "+d"},
		{NewPath: "README.md", Diff: "+r"},
		{NewPath: "go.lock", Diff: "+l"},
		{NewPath: "img/logo.png", Diff: "bin"},
	}
	got := paths(reviewable(p, changes))
	assert.Equal(t, []string{"cmd/main.go", "d.go", "README.md"}, got)
}

func TestBuildPrompt(t *testing.T) {
	jc := report.JobContext{ProjectName: "demo", Title: "T", ChangeRef: 9, FileCount: 2}
	assert.Equal(t, executor.Prompt(executor.FocusSecurity), buildPrompt("  ", executor.FocusSecurity, jc, "a...b"))
	assert.Equal(t, "demo T 9 2 a...b {unknown}", buildPrompt("{project_name} {title} {mr_iid} {file_count} {diff_range} {unknown}", "", jc, "a...b"))
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	key := model.JobKey{ProjectID: 1, ChangeRef: 2}

	unlock := k.Lock(key)
	acquired := make(chan struct{})
	go func() {
		u := k.Lock(key)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}
	other := k.Lock(model.JobKey{ProjectID: 1, ChangeRef: 3})
	other()

	unlock()
	<-acquired
	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
