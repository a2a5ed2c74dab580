package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/project"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/internal/workspace"
	"code-review-pipeline/pkg/gitlab"
)

type fakeProjects struct {
	project.UseCase
	p       model.Project
	created bool
}

func (f *fakeProjects) Register(_ context.Context, in project.RegisterInput) (project.RegisterOutput, error) {
	p := f.p
	if p.ID == 0 {
		p = model.Project{ID: in.Project.ID, Name: in.Project.Name}
	}
	return project.RegisterOutput{Project: p, Created: f.created}, nil
}

func (f *fakeProjects) Detail(_ context.Context, id int64) (model.Project, error) {
	if f.p.ID != id {
		return model.Project{}, project.ErrProjectNotFound
	}
	return f.p, nil
}

type fakeRules struct {
	rule.UseCase
	matched bool
}

func (f *fakeRules) Match(_ context.Context, in rule.MatchInput) (rule.MatchOutput, error) {
	if !f.matched {
		return rule.MatchOutput{}, nil
	}
	return rule.MatchOutput{Rule: model.EventRule{ID: in.EnabledRuleIDs[0]}, Matched: true}, nil
}

type fakeReviews struct {
	review.UseCase
	mu       sync.Mutex
	seq      int
	jobs     map[string]*model.ReviewJob
	complete []review.CompleteInput
	fail     []review.FailInput
	notified map[string]model.DispatchSummary
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{jobs: map[string]*model.ReviewJob{}, notified: map[string]model.DispatchSummary{}}
}

func (f *fakeReviews) Open(_ context.Context, in review.OpenInput) (model.ReviewJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.ProjectID == in.ProjectID && j.ChangeRef == in.ChangeRef {
			if !j.Status.Terminal() {
				return model.ReviewJob{}, review.ErrJobInFlight
			}
			j.Status = model.JobPending
			return *j, nil
		}
	}
	f.seq++
	j := &model.ReviewJob{
		ID:           fmt.Sprintf("job-%d", f.seq),
		ProjectID:    in.ProjectID,
		ChangeRef:    in.ChangeRef,
		Title:        in.Title,
		SourceBranch: in.SourceBranch,
		TargetBranch: in.TargetBranch,
		Author:       in.Author,
		Status:       model.JobPending,
	}
	f.jobs[j.ID] = j
	return *j, nil
}

func (f *fakeReviews) move(id string, to model.JobStatus) (*model.ReviewJob, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, review.ErrJobNotFound
	}
	if !model.CanTransition(j.Status, to) {
		return nil, review.ErrInvalidTransition
	}
	j.Status = to
	return j, nil
}

func (f *fakeReviews) Start(_ context.Context, id string) (model.ReviewJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, err := f.move(id, model.JobProcessing)
	if err != nil {
		return model.ReviewJob{}, err
	}
	return *j, nil
}

func (f *fakeReviews) Complete(_ context.Context, in review.CompleteInput) (model.ReviewJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, err := f.move(in.ID, model.JobCompleted)
	if err != nil {
		return model.ReviewJob{}, err
	}
	j.Content = in.Content
	j.Score = in.Score
	f.complete = append(f.complete, in)
	return *j, nil
}

func (f *fakeReviews) Fail(_ context.Context, in review.FailInput) (model.ReviewJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, err := f.move(in.ID, model.JobFailed)
	if err != nil {
		return model.ReviewJob{}, err
	}
	j.ErrorMessage = in.ErrorMessage
	f.fail = append(f.fail, in)
	return *j, nil
}

func (f *fakeReviews) RecordNotification(_ context.Context, id string, s model.DispatchSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified[id] = s
	return nil
}

func (f *fakeReviews) Detail(_ context.Context, id string) (model.ReviewJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return model.ReviewJob{}, review.ErrJobNotFound
	}
	return *j, nil
}

func (f *fakeReviews) status(id string) model.JobStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[id].Status
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []notification.DispatchInput
}

func (f *fakeDispatcher) Dispatch(_ context.Context, in notification.DispatchInput) model.DispatchSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	return model.DispatchSummary{Success: true, TotalChannels: 1, SuccessChannels: 1}
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSCM struct {
	changes []gitlab.Change
	err     error
	block   chan struct{}
}

func (f *fakeSCM) GetMergeRequestChanges(ctx context.Context, pid, iid int64) (gitlab.MergeRequestChanges, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return gitlab.MergeRequestChanges{}, ctx.Err()
		}
	}
	if f.err != nil {
		return gitlab.MergeRequestChanges{}, f.err
	}
	return gitlab.MergeRequestChanges{
		MergeRequest: gitlab.MergeRequest{IID: iid, ProjectID: pid, WebURL: "https://git.example.com/mr/1"},
		Changes:      f.changes,
	}, nil
}

type fakeWorkspace struct {
	mu       sync.Mutex
	prepared []workspace.PrepareInput
	branch   string
}

func (f *fakeWorkspace) Lock(int64) func() { return func() {} }

func (f *fakeWorkspace) Prepare(_ context.Context, in workspace.PrepareInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = append(f.prepared, in)
	return "/work/project-7", nil
}

func (f *fakeWorkspace) Checkout(_ context.Context, _ string, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branch = branch
	return nil
}

func (f *fakeWorkspace) DiffRange(context.Context, string, string) string {
	return "origin/main...HEAD"
}

type fakeExecutor struct {
	name   string
	mu     sync.Mutex
	inputs []executor.RunInput
	result executor.Result
	err    error
	// hang makes Run wait for ctx to end.
	hang bool
	// crash makes Run panic with this value.
	crash any
}

func (f *fakeExecutor) Name() string { return f.name }

func (f *fakeExecutor) Run(ctx context.Context, in executor.RunInput) (executor.Result, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if f.crash != nil {
		panic(f.crash)
	}
	if f.hang {
		<-ctx.Done()
		return executor.Result{}, ctx.Err()
	}
	return f.result, f.err
}

var errReviewerCrashed = errors.New("reviewer exited with status 2")
