package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"code-review-pipeline/internal/model"
	repo "code-review-pipeline/internal/notification/repository"
	"code-review-pipeline/internal/store"
)

const channelColumns = `id, name, type, description, config, is_default, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(s rowScanner) (model.NotificationChannel, error) {
	var (
		ch                model.NotificationChannel
		typ, config       string
		isDefault, active int
	)
	err := s.Scan(&ch.ID, &ch.Name, &typ, &ch.Description, &config, &isDefault, &active, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return model.NotificationChannel{}, err
	}
	ch.Type = model.ChannelType(typ)
	ch.Config = store.DecodeObject(config)
	ch.IsDefault = isDefault == 1
	ch.Active = active == 1
	return ch, nil
}

func encodeConfig(cfg map[string]any) (string, error) {
	if cfg == nil {
		return "{}", nil
	}
	b, err := json.Marshal(cfg)
	return string(b), err
}

func (r *implRepository) CreateChannel(ctx context.Context, opt repo.CreateChannelOptions) (model.NotificationChannel, error) {
	config, err := encodeConfig(opt.Config)
	if err != nil {
		r.l.Errorf(ctx, "%s encode: %v", r.dsn("CreateChannel"), err)
		return model.NotificationChannel{}, repo.ErrFailedToInsert
	}
	now := time.Now().UTC()
	ch := model.NotificationChannel{
		ID:          uuid.NewString(),
		Name:        opt.Name,
		Type:        opt.Type,
		Description: opt.Description,
		Config:      store.DecodeObject(config),
		IsDefault:   opt.IsDefault,
		Active:      opt.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notification_channels (`+channelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ch.ID, ch.Name, string(ch.Type), ch.Description, config,
		store.BoolToInt(ch.IsDefault), store.BoolToInt(ch.Active), ch.CreatedAt, ch.UpdatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateChannel"), err)
		return model.NotificationChannel{}, repo.ErrFailedToInsert
	}
	return ch, nil
}

// GetOneChannel returns a zero channel when id is unknown.
func (r *implRepository) GetOneChannel(ctx context.Context, id string) (model.NotificationChannel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM notification_channels WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotificationChannel{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneChannel"), err)
		return model.NotificationChannel{}, repo.ErrFailedToGet
	}
	return ch, nil
}

func (r *implRepository) ListChannels(ctx context.Context, opt repo.ListChannelsOptions) ([]model.NotificationChannel, error) {
	var (
		conds []string
		args  []any
	)
	if opt.IDs != nil {
		if len(opt.IDs) == 0 {
			return nil, nil
		}
		conds = append(conds, "id IN (?"+strings.Repeat(",?", len(opt.IDs)-1)+")")
		for _, id := range opt.IDs {
			args = append(args, id)
		}
	}
	if opt.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(opt.Type))
	}
	if opt.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	if opt.DefaultOnly {
		conds = append(conds, "is_default = 1")
	}
	query := `SELECT ` + channelColumns + ` FROM notification_channels`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListChannels"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var out []model.NotificationChannel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListChannels"), err)
			return nil, repo.ErrFailedToList
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (r *implRepository) UpdateChannel(ctx context.Context, ch model.NotificationChannel) (model.NotificationChannel, error) {
	config, err := encodeConfig(ch.Config)
	if err != nil {
		r.l.Errorf(ctx, "%s encode: %v", r.dsn("UpdateChannel"), err)
		return model.NotificationChannel{}, repo.ErrFailedToUpdate
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_channels SET name = ?, description = ?, config = ?, is_default = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		ch.Name, ch.Description, config, store.BoolToInt(ch.IsDefault), store.BoolToInt(ch.Active), time.Now().UTC(), ch.ID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateChannel"), err)
		return model.NotificationChannel{}, repo.ErrFailedToUpdate
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotificationChannel{}, nil
	}
	return r.GetOneChannel(ctx, ch.ID)
}

func (r *implRepository) DeleteChannel(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notification_channels WHERE id = ?`, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteChannel"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}
