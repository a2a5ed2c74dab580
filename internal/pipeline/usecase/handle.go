package usecase

import (
	"context"
	"errors"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/project"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/rule"
)

func (uc *implUseCase) Handle(ctx context.Context, ev model.Event) (pipeline.Outcome, error) {
	if ev.Project.ID == 0 {
		return skip(model.SkipProjectUnknown), nil
	}

	reg, err := uc.projects.Register(ctx, project.RegisterInput{Project: ev.Project, SeenAt: uc.now()})
	if err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.Handle.Register: %v", err)
		return pipeline.Outcome{}, err
	}
	p := reg.Project
	if reg.Created {
		uc.l.Infof(ctx, "pipeline.usecase.Handle: registered project %d (%s) with review disabled", p.ID, p.Name)
	}
	if !p.ReviewEnabled {
		return skip(model.SkipReviewDisabled), nil
	}

	if ev.EventType != model.EventMergeRequest {
		return skip(model.SkipUnsupportedEvent), nil
	}
	if len(p.EnabledRuleIDs) == 0 {
		return skip(model.SkipNoRulesEnabled), nil
	}
	m, err := uc.rules.Match(ctx, rule.MatchInput{EnabledRuleIDs: p.EnabledRuleIDs, Payload: ev.Payload})
	if err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.Handle.Match: %v", err)
		return pipeline.Outcome{}, err
	}
	if !m.Matched {
		return skip(model.SkipNoRuleMatched), nil
	}

	iid := ev.ChangeRef()
	if iid == 0 {
		uc.l.Warnf(ctx, "pipeline.usecase.Handle: project %d: %v", p.ID, pipeline.ErrNoChangeRef)
		return pipeline.Outcome{Status: pipeline.StatusIgnored, RuleID: m.Rule.ID, Detail: pipeline.ErrNoChangeRef.Error()}, nil
	}

	job, err := uc.reviews.Open(ctx, review.OpenInput{
		ProjectID:    p.ID,
		ChangeRef:    iid,
		Title:        ev.Title(),
		SourceBranch: ev.SourceBranch(),
		TargetBranch: ev.TargetBranch(),
		Author:       ev.Author(),
		RequestID:    ev.RequestID,
	})
	if errors.Is(err, review.ErrJobInFlight) {
		uc.l.Infof(ctx, "pipeline.usecase.Handle: change %d/%d already in flight", p.ID, iid)
		return pipeline.Outcome{Status: pipeline.StatusCoalesced, SkipReason: model.SkipJobInFlight, RuleID: m.Rule.ID}, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.Handle.Open: %v", err)
		return pipeline.Outcome{}, err
	}

	t := task{ctx: context.WithoutCancel(ctx), jobID: job.ID, project: p, event: ev}
	if err := uc.submit(t); err != nil {
		uc.l.Warnf(ctx, "pipeline.usecase.Handle.submit: job %s: %v", job.ID, err)
		if _, ferr := uc.reviews.Fail(ctx, review.FailInput{ID: job.ID, ErrorMessage: err.Error(), Executor: uc.exe.Name()}); ferr != nil {
			uc.l.Errorf(ctx, "pipeline.usecase.Handle.Fail: %v", ferr)
		}
		uc.rec.ObserveJob(string(model.JobFailed), uc.exe.Name(), 0)
		return pipeline.Outcome{Status: pipeline.StatusRejected, JobID: job.ID, RuleID: m.Rule.ID}, err
	}

	return pipeline.Outcome{Status: pipeline.StatusQueued, JobID: job.ID, RuleID: m.Rule.ID}, nil
}

func skip(reason string) pipeline.Outcome {
	return pipeline.Outcome{Status: pipeline.StatusSkipped, SkipReason: reason}
}
