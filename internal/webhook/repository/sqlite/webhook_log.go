package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/store"
	repo "code-review-pipeline/internal/webhook/repository"
)

const logColumns = `id, event_type, project_id, change_ref, user_name, source_branch, target_branch, payload,
	remote_addr, request_id, processed, skip_reason, error_message, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(s rowScanner) (model.WebhookLog, error) {
	var (
		w         model.WebhookLog
		processed int
	)
	err := s.Scan(&w.ID, &w.EventType, &w.ProjectID, &w.ChangeRef, &w.UserName, &w.SourceBranch, &w.TargetBranch,
		&w.Payload, &w.RemoteAddr, &w.RequestID, &processed, &w.SkipReason, &w.ErrorMessage, &w.CreatedAt)
	if err != nil {
		return model.WebhookLog{}, err
	}
	w.Processed = processed == 1
	return w, nil
}

func (r *implRepository) CreateLog(ctx context.Context, opt repo.CreateLogOptions) (model.WebhookLog, error) {
	w := model.WebhookLog{
		ID:           uuid.NewString(),
		EventType:    opt.EventType,
		ProjectID:    opt.ProjectID,
		ChangeRef:    opt.ChangeRef,
		UserName:     opt.UserName,
		SourceBranch: opt.SourceBranch,
		TargetBranch: opt.TargetBranch,
		Payload:      opt.Payload,
		RemoteAddr:   opt.RemoteAddr,
		RequestID:    opt.RequestID,
		Processed:    opt.Processed,
		SkipReason:   opt.SkipReason,
		ErrorMessage: opt.ErrorMessage,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webhook_logs (`+logColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.EventType, w.ProjectID, w.ChangeRef, w.UserName, w.SourceBranch, w.TargetBranch, w.Payload,
		w.RemoteAddr, w.RequestID, store.BoolToInt(w.Processed), w.SkipReason, w.ErrorMessage, w.CreatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateLog"), err)
		return model.WebhookLog{}, repo.ErrFailedToInsert
	}
	return w, nil
}

func (r *implRepository) GetOneLog(ctx context.Context, id string) (model.WebhookLog, error) {
	w, err := scanLog(r.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM webhook_logs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WebhookLog{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneLog"), err)
		return model.WebhookLog{}, repo.ErrFailedToGet
	}
	return w, nil
}

func (r *implRepository) ListLogs(ctx context.Context, opt repo.ListLogsOptions) ([]model.WebhookLog, int, error) {
	var (
		conds []string
		args  []any
	)
	if opt.ProjectID != 0 {
		conds = append(conds, "project_id = ?")
		args = append(args, opt.ProjectID)
	}
	if opt.EventType != "" {
		conds = append(conds, "event_type = ?")
		args = append(args, opt.EventType)
	}
	if opt.SkipReason != "" {
		conds = append(conds, "skip_reason = ?")
		args = append(args, opt.SkipReason)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM webhook_logs`+where, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}

	query := `SELECT ` + logColumns + ` FROM webhook_logs` + where + ` ORDER BY created_at DESC, id ASC`
	if opt.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opt.Limit, opt.Offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var logs []model.WebhookLog
	for rows.Next() {
		w, err := scanLog(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListLogs"), err)
			return nil, 0, repo.ErrFailedToList
		}
		logs = append(logs, w)
	}
	return logs, total, rows.Err()
}

func (r *implRepository) PruneLogs(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := r.db.ExecContext(ctx, `DELETE FROM webhook_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("PruneLogs"), err)
		return 0, repo.ErrFailedToDelete
	}
	return res.RowsAffected()
}
