package usecase

import (
	"context"
	"strings"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	repo "code-review-pipeline/internal/notification/repository"
)

func (uc *implUseCase) Create(ctx context.Context, input notification.CreateInput) (model.NotificationChannel, error) {
	if strings.TrimSpace(input.Name) == "" {
		return model.NotificationChannel{}, notification.ErrNameRequired
	}
	if !input.Type.Valid() {
		return model.NotificationChannel{}, notification.ErrInvalidType
	}

	ch, err := uc.repo.CreateChannel(ctx, repo.CreateChannelOptions{
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Config:      input.Config,
		IsDefault:   input.IsDefault,
		Active:      input.Active,
	})
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Create.CreateChannel: %v", err)
		return model.NotificationChannel{}, err
	}
	return ch, nil
}

func (uc *implUseCase) Detail(ctx context.Context, id string) (model.NotificationChannel, error) {
	ch, err := uc.repo.GetOneChannel(ctx, id)
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Detail.GetOneChannel: %v", err)
		return model.NotificationChannel{}, err
	}
	if ch.ID == "" {
		return model.NotificationChannel{}, notification.ErrChannelNotFound
	}
	return ch, nil
}

func (uc *implUseCase) List(ctx context.Context, input notification.ListInput) (notification.ListOutput, error) {
	channels, err := uc.repo.ListChannels(ctx, repo.ListChannelsOptions{Type: input.Type, ActiveOnly: input.ActiveOnly})
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.List.ListChannels: %v", err)
		return notification.ListOutput{}, err
	}
	return notification.ListOutput{Channels: channels, Total: len(channels)}, nil
}

// Update applies a partial update. A non-nil Config replaces the stored one.
func (uc *implUseCase) Update(ctx context.Context, input notification.UpdateInput) (model.NotificationChannel, error) {
	ch, err := uc.Detail(ctx, input.ID)
	if err != nil {
		return model.NotificationChannel{}, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		ch.Name = name
	}
	if input.Description != nil {
		ch.Description = *input.Description
	}
	if input.Config != nil {
		ch.Config = input.Config
	}
	if input.IsDefault != nil {
		ch.IsDefault = *input.IsDefault
	}
	if input.Active != nil {
		ch.Active = *input.Active
	}

	updated, err := uc.repo.UpdateChannel(ctx, ch)
	if err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Update.UpdateChannel: %v", err)
		return model.NotificationChannel{}, err
	}
	if updated.ID == "" {
		return model.NotificationChannel{}, notification.ErrChannelNotFound
	}
	return updated, nil
}

func (uc *implUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Detail(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.DeleteChannel(ctx, id); err != nil {
		uc.l.Errorf(ctx, "notification.usecase.Delete.DeleteChannel: %v", err)
		return err
	}
	return nil
}
