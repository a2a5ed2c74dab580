package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/notification/channel"
	repo "code-review-pipeline/internal/notification/repository"
	"code-review-pipeline/pkg/log"
)

// commentChannel stands in for the merge request comment target when no
// gitlab channel is stored.
var commentChannel = model.NotificationChannel{
	ID:     "gitlab-comment",
	Name:   "Merge request comment",
	Type:   model.ChannelGitLab,
	Active: true,
}

// Dispatch sends input.Message to every channel the project resolves to.
// One failing or panicking adapter never stops the others; the summary is a
// success when at least one channel accepted the message.
func (uc *implUseCase) Dispatch(ctx context.Context, input notification.DispatchInput) model.DispatchSummary {
	start := time.Now()

	targets, err := uc.resolveTargets(ctx, input.Project)
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Dispatch.resolveTargets: %v", err)
		return model.DispatchSummary{
			Message:      fmt.Sprintf("failed to resolve channels: %v", err),
			DispatchTime: time.Since(start),
		}
	}
	if len(targets) == 0 {
		uc.l.Warnf(ctx, "notification.usecase.Dispatch: project %d has no enabled channels", input.Project.ID)
		return model.DispatchSummary{Success: true, Message: notification.MessageNoChannels, DispatchTime: time.Since(start)}
	}

	results := make([]model.DispatchResult, len(targets))
	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, ch := range targets {
		g.Go(func() error {
			results[i] = uc.send(ctx, ch, input.Message)
			return nil
		})
	}
	_ = g.Wait()

	summary := summarize(results)
	summary.DispatchTime = time.Since(start)
	uc.l.Infof(ctx, "notification.usecase.Dispatch: %d/%d channels succeeded, failed=%v",
		summary.SuccessChannels, summary.TotalChannels, summary.FailedChannelList)
	return summary
}

func summarize(results []model.DispatchResult) model.DispatchSummary {
	s := model.DispatchSummary{
		TotalChannels:     len(results),
		FailedChannelList: []string{},
		Results:           results,
	}
	for _, r := range results {
		if r.Success {
			s.SuccessChannels++
			continue
		}
		s.FailedChannels++
		s.FailedChannelList = append(s.FailedChannelList, fmt.Sprintf("%s:%s", r.Channel, r.ChannelID))
	}
	s.Success = s.SuccessChannels > 0
	s.Message = fmt.Sprintf("%d of %d channels succeeded", s.SuccessChannels, s.TotalChannels)
	return s
}

// resolveTargets returns the project's subscribed active channels, or the
// active defaults when it has none, plus the comment channel when enabled.
func (uc *implUseCase) resolveTargets(ctx context.Context, p model.Project) ([]model.NotificationChannel, error) {
	var chat []model.NotificationChannel
	if len(p.ChannelIDs) > 0 {
		subscribed, err := uc.repo.ListChannels(ctx, repo.ListChannelsOptions{IDs: p.ChannelIDs, ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		chat = withoutComments(subscribed)
	}
	if len(chat) == 0 {
		defaults, err := uc.repo.ListChannels(ctx, repo.ListChannelsOptions{ActiveOnly: true, DefaultOnly: true})
		if err != nil {
			return nil, err
		}
		chat = withoutComments(defaults)
	}

	targets := chat
	if p.CommentEnabled {
		stored, err := uc.repo.ListChannels(ctx, repo.ListChannelsOptions{Type: model.ChannelGitLab, ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			targets = append(targets, stored[0])
		} else {
			targets = append(targets, commentChannel)
		}
	}
	return dedupe(targets), nil
}

func withoutComments(in []model.NotificationChannel) []model.NotificationChannel {
	out := in[:0:0]
	for _, ch := range in {
		if ch.Type != model.ChannelGitLab {
			out = append(out, ch)
		}
	}
	return out
}

func dedupe(in []model.NotificationChannel) []model.NotificationChannel {
	seen := make(map[string]struct{}, len(in))
	out := make([]model.NotificationChannel, 0, len(in))
	for _, ch := range in {
		if _, ok := seen[ch.ID]; ok {
			continue
		}
		seen[ch.ID] = struct{}{}
		out = append(out, ch)
	}
	return out
}

func (uc *implUseCase) send(ctx context.Context, ch model.NotificationChannel, msg channel.Message) (res model.DispatchResult) {
	start := time.Now()
	res = model.DispatchResult{Channel: ch.Type, ChannelID: ch.ID, ChannelName: ch.Name}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Message = fmt.Sprintf("channel %s (%s) panicked: %v", ch.Type, ch.Name, r)
			res.Details = map[string]any{"error": fmt.Sprint(r)}
		}
		res.ResponseTime = time.Since(start)
		uc.rec.ObserveChannel(string(ch.Type), res.Success, res.ResponseTime)
		if !res.Success {
			uc.l.Errorf(ctx, "notification.usecase.send: %s (%s) failed: %s", ch.Type, ch.Name, res.Message)
		}
	}()

	adapter, err := channel.New(ch, uc.deps)
	if err != nil {
		res.Message = err.Error()
		res.Details = errorDetails(err)
		return res
	}
	if lim := uc.limiter(ch.ID); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			res.Message = fmt.Sprintf("rate limit wait: %v", err)
			return res
		}
	}

	receipt, err := adapter.Send(ctx, msg)
	if err != nil {
		res.Message = err.Error()
		res.Details = errorDetails(err)
		return res
	}
	res.Success = true
	res.Message = receipt.Message
	res.Details = receipt.Details
	return res
}

func errorDetails(err error) map[string]any {
	d := map[string]any{"error": err.Error()}
	var (
		pe  *channel.ProviderError
		cfg *model.ConfigError
	)
	if errors.As(err, &pe) {
		d["http_status"] = pe.HTTPStatus
		if pe.Code != 0 {
			d["code"] = pe.Code
		}
	}
	if errors.As(err, &cfg) {
		d["config_field"] = cfg.Field
	}
	return d
}

// Test sends a probe message through the channel with the given id.
func (uc *implUseCase) Test(ctx context.Context, id string) (model.DispatchResult, error) {
	ch, err := uc.Detail(ctx, id)
	if err != nil {
		return model.DispatchResult{}, err
	}
	res := uc.send(ctx, ch, channel.Message{
		Subject:     "Test notification",
		ProjectName: "code-review-pipeline",
		ChangeTitle: "Channel test",
		Body:        fmt.Sprintf("This is a test message for channel %q. Delivery works.", ch.Name),
		Time:        time.Now(),
	})
	uc.l.Infof(ctx, "notification.usecase.Test: channel=%s success=%t request_id=%s", ch.ID, res.Success, log.RequestIDFrom(ctx))
	return res, nil
}
