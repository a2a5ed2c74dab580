package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/notification/channel"
	"code-review-pipeline/internal/report"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/workspace"
)

var errEmptyOutput = errors.New("reviewer returned empty output")

const noReviewableChanges = "No reviewable changes: every file was filtered out."

// outcome is what a successful run hands to Complete.
type outcome struct {
	rep    report.Report
	files  []string
	total  int
	raw    string
	empty  bool
	isMock bool
}

// runError keeps the reviewer output of a failed run.
type runError struct {
	err error
	raw string
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func (uc *implUseCase) process(ctx context.Context, t task) {
	started := uc.now()
	name := uc.exe.Name()

	job, err := uc.reviews.Start(ctx, t.jobID)
	if err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.process.Start: job %s: %v", t.jobID, err)
		uc.fail(ctx, t, uc.jobContext(t), err)
		uc.rec.ObserveJob(string(model.JobFailed), name, uc.now().Sub(started))
		return
	}

	jc := report.JobContext{
		ProjectName:  t.project.Name,
		Title:        job.Title,
		Author:       job.Author,
		SourceBranch: job.SourceBranch,
		TargetBranch: job.TargetBranch,
		ChangeRef:    job.ChangeRef,
		Executor:     name,
		Time:         started,
	}

	out, err := uc.execute(ctx, t, &jc)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !model.IsTimeout(err) {
			err = &model.TimeoutError{Op: "review job", Bound: uc.cfg.JobTimeout}
		}
		uc.fail(ctx, t, jc, err)
		uc.rec.ObserveJob(string(model.JobFailed), name, uc.now().Sub(started))
		return
	}

	in := review.CompleteInput{
		ID:            job.ID,
		FilesReviewed: out.files,
		TotalFiles:    out.total,
		RawOutput:     out.raw,
		Executor:      name,
		IsMock:        out.isMock,
	}
	if out.empty {
		in.Content = noReviewableChanges
	} else {
		score := out.rep.Score
		in.Score = &score
		in.Content = report.Format(out.rep, jc)
	}
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := uc.reviews.Complete(wctx, in); err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.process.Complete: job %s: %v", job.ID, err)
		uc.fail(ctx, t, jc, err)
		uc.rec.ObserveJob(string(model.JobFailed), name, uc.now().Sub(started))
		return
	}
	uc.rec.ObserveJob(string(model.JobCompleted), name, uc.now().Sub(started))
	uc.l.Infof(ctx, "pipeline.usecase.process: job %s completed in %s", job.ID, uc.now().Sub(started).Round(time.Millisecond))

	if out.empty {
		return
	}
	uc.notify(ctx, job.ID, t, jc, report.Title(jc), in.Content)
}

// execute fetches the change, runs the reviewer and parses its output.
func (uc *implUseCase) execute(ctx context.Context, t task, jc *report.JobContext) (outcome, error) {
	mr, err := uc.scm.GetMergeRequestChanges(ctx, t.project.ID, jc.ChangeRef)
	if err != nil {
		return outcome{}, &model.ExternalCallError{Op: "fetch merge request changes", Err: err}
	}
	jc.WebURL = mr.WebURL
	if jc.Title == "" {
		jc.Title = mr.Title
	}
	if jc.SourceBranch == "" {
		jc.SourceBranch = mr.SourceBranch
	}
	if jc.TargetBranch == "" {
		jc.TargetBranch = mr.TargetBranch
	}
	if jc.Author == "" {
		jc.Author = mr.Author.Name
	}

	files := reviewable(t.project, mr.Changes)
	jc.FileCount = len(files)
	res := outcome{files: paths(files), total: len(mr.Changes)}
	if len(files) == 0 {
		res.empty = true
		return res, nil
	}

	if uc.exe.Name() == executor.ProviderMock {
		res.rep = report.Mock(report.MockInput{
			ProjectName:  jc.ProjectName,
			Title:        jc.Title,
			Author:       jc.Author,
			FileCount:    len(files),
			ChangesCount: len(mr.Changes),
		})
		res.raw = res.rep.Content
		res.isMock = true
		return res, nil
	}

	r, err := uc.runReviewer(ctx, t, *jc)
	res.raw = r.Raw
	if err != nil {
		return res, &runError{err: err, raw: r.Raw}
	}
	if strings.TrimSpace(r.Content) == "" {
		return res, &runError{err: &model.ParseError{Raw: r.Raw, Err: errEmptyOutput}, raw: r.Raw}
	}
	res.rep = report.Parse(r.Content, r.Metadata)
	return res, nil
}

func (uc *implUseCase) runReviewer(ctx context.Context, t task, jc report.JobContext) (executor.Result, error) {
	unlock := uc.ws.Lock(t.project.ID)
	defer unlock()

	url := t.event.Project.CloneURL()
	if url == "" {
		url = t.project.URL
	}
	dir, err := uc.ws.Prepare(ctx, workspace.PrepareInput{URL: url, ProjectID: t.project.ID, Token: uc.cfg.GitToken})
	if err != nil {
		return executor.Result{}, err
	}
	if err := uc.ws.Checkout(ctx, dir, jc.SourceBranch); err != nil {
		return executor.Result{}, err
	}
	diffRange := uc.ws.DiffRange(ctx, dir, jc.TargetBranch)

	return uc.exe.Run(ctx, executor.RunInput{
		WorkDir:   dir,
		Prompt:    buildPrompt(t.project.CustomPrompt, uc.cfg.PromptFocus, jc, diffRange),
		DiffRange: diffRange,
		Timeout:   uc.cfg.ExecutorTimeout,
	})
}

func (uc *implUseCase) fail(ctx context.Context, t task, jc report.JobContext, err error) {
	uc.l.Warnf(ctx, "pipeline.usecase.process: job %s failed: %v", t.jobID, err)

	var raw string
	var re *runError
	if errors.As(err, &re) {
		raw = re.raw
	}
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, ferr := uc.reviews.Fail(wctx, review.FailInput{
		ID:           t.jobID,
		ErrorMessage: err.Error(),
		RawOutput:    raw,
		Executor:     uc.exe.Name(),
	}); ferr != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.process.Fail: job %s: %v", t.jobID, ferr)
		return
	}

	if !uc.cfg.NotifyOnFailure {
		return
	}
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	subject := fmt.Sprintf("%s (failed)", report.Title(jc))
	uc.notify(ctx, t.jobID, t, jc, subject, report.ErrorReport(jc, err))
}

// jobContext describes a job from its queued task alone.
func (uc *implUseCase) jobContext(t task) report.JobContext {
	return report.JobContext{
		ProjectName:  t.project.Name,
		Title:        t.event.Title(),
		Author:       t.event.Author(),
		SourceBranch: t.event.SourceBranch(),
		TargetBranch: t.event.TargetBranch(),
		ChangeRef:    t.event.ChangeRef(),
		Executor:     uc.exe.Name(),
		Time:         uc.now(),
	}
}

func (uc *implUseCase) notify(ctx context.Context, jobID string, t task, jc report.JobContext, subject, body string) model.DispatchSummary {
	sum := uc.dispatcher.Dispatch(ctx, notification.DispatchInput{
		Project: t.project,
		Message: channel.Message{
			Subject:     subject,
			ProjectName: jc.ProjectName,
			ChangeTitle: jc.Title,
			ProjectID:   t.project.ID,
			ChangeRef:   jc.ChangeRef,
			Body:        body,
			Time:        uc.now(),
		},
	})
	wctx, cancel := detached(ctx)
	defer cancel()
	if err := uc.reviews.RecordNotification(wctx, jobID, sum); err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.notify.RecordNotification: job %s: %v", jobID, err)
	}
	if !sum.Success {
		uc.l.Warnf(ctx, "pipeline.usecase.notify: job %s: %s", jobID, sum.Message)
	}
	return sum
}
