package usecase

import (
	"context"
	"errors"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/webhook"
	repo "code-review-pipeline/internal/webhook/repository"
)

func (uc *implUseCase) Receive(ctx context.Context, input webhook.ReceiveInput) (webhook.ReceiveOutput, error) {
	ev, err := webhook.ParseGitLab(input.Body, input.EventHeader, uc.now())
	if err != nil {
		uc.l.Warnf(ctx, "webhook.usecase.Receive.ParseGitLab: %v", err)
		out := webhook.ReceiveOutput{Status: webhook.StatusIgnored}
		out.LogID = uc.record(ctx, input, model.Event{EventType: input.EventHeader}, repo.CreateLogOptions{ErrorMessage: err.Error()})
		uc.rec.ObserveWebhook(input.EventHeader, string(out.Status))
		return out, nil
	}
	ev.DeliveryID = input.DeliveryID
	ev.RequestID = input.RequestID
	ev.RemoteAddr = input.RemoteAddr

	if !uc.deliveries.Claim(input.DeliveryID) {
		uc.l.Infof(ctx, "webhook.usecase.Receive: delivery %s already seen", input.DeliveryID)
		out := webhook.ReceiveOutput{Status: webhook.StatusDuplicate, SkipReason: model.SkipDuplicate}
		out.LogID = uc.record(ctx, input, ev, repo.CreateLogOptions{SkipReason: model.SkipDuplicate})
		uc.rec.ObserveWebhook(ev.EventType, string(out.Status))
		return out, nil
	}

	res, err := uc.pipeline.Handle(ctx, ev)
	out := webhook.ReceiveOutput{SkipReason: res.SkipReason, JobID: res.JobID}
	opt := repo.CreateLogOptions{SkipReason: res.SkipReason}
	switch {
	case err != nil:
		// a rejected delivery must be processed when the sender retries it
		uc.deliveries.Release(input.DeliveryID)
		opt.ErrorMessage = err.Error()
		out.LogID = uc.record(ctx, input, ev, opt)
		uc.rec.ObserveWebhook(ev.EventType, "error")
		if !errors.Is(err, pipeline.ErrQueueFull) && !errors.Is(err, pipeline.ErrShuttingDown) {
			uc.l.Errorf(ctx, "webhook.usecase.Receive.Handle: %v", err)
		}
		return out, err
	case res.Status == pipeline.StatusSkipped:
		out.Status = webhook.StatusSkipped
	case res.Status == pipeline.StatusIgnored:
		out.Status = webhook.StatusIgnored
		opt.ErrorMessage = res.Detail
	case res.Status == pipeline.StatusCoalesced:
		out.Status = webhook.StatusCoalesced
		opt.Processed = true
	default:
		out.Status = webhook.StatusAccepted
		opt.Processed = true
	}
	out.LogID = uc.record(ctx, input, ev, opt)
	uc.rec.ObserveWebhook(ev.EventType, string(out.Status))
	return out, nil
}

// record stores the delivery. A storage failure is logged and never fails the delivery.
func (uc *implUseCase) record(ctx context.Context, input webhook.ReceiveInput, ev model.Event, opt repo.CreateLogOptions) string {
	opt.EventType = ev.EventType
	opt.ProjectID = ev.Project.ID
	opt.ChangeRef = ev.ChangeRef()
	opt.UserName = ev.User.Name
	if opt.UserName == "" {
		opt.UserName = ev.User.Username
	}
	opt.SourceBranch = ev.SourceBranch()
	opt.TargetBranch = ev.TargetBranch()
	opt.RemoteAddr = input.RemoteAddr
	opt.RequestID = input.RequestID
	opt.Payload = input.Body
	if len(opt.Payload) > maxStoredPayload {
		opt.Payload = opt.Payload[:maxStoredPayload]
	}

	w, err := uc.repo.CreateLog(ctx, opt)
	if err != nil {
		uc.l.Errorf(ctx, "webhook.usecase.record.CreateLog: %v", err)
		return ""
	}
	return w.ID
}
