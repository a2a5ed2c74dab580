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
	repo "code-review-pipeline/internal/review/repository"
	"code-review-pipeline/internal/store"
)

const jobColumns = `id, project_id, change_ref, title, source_branch, target_branch, author, status, content, score,
	files_reviewed, total_files, error_message, raw_output, executor, is_mock, notification_sent, notification_result,
	request_id, created_at, completed_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (model.ReviewJob, error) {
	var (
		j                model.ReviewJob
		status, files    string
		score            sql.NullInt64
		isMock, notified int
		notification     sql.NullString
		completedAt      sql.NullTime
	)
	err := s.Scan(&j.ID, &j.ProjectID, &j.ChangeRef, &j.Title, &j.SourceBranch, &j.TargetBranch, &j.Author,
		&status, &j.Content, &score, &files, &j.TotalFiles, &j.ErrorMessage, &j.RawOutput, &j.Executor,
		&isMock, &notified, &notification, &j.RequestID, &j.CreatedAt, &completedAt, &j.UpdatedAt)
	if err != nil {
		return model.ReviewJob{}, err
	}
	j.Status = model.JobStatus(status)
	if score.Valid {
		v := int(score.Int64)
		j.Score = &v
	}
	j.FilesReviewed = store.DecodeStrings(files)
	j.IsMock = isMock == 1
	j.NotificationSent = notified == 1
	if notification.Valid && notification.String != "" {
		var summary model.DispatchSummary
		if json.Unmarshal([]byte(notification.String), &summary) == nil {
			j.NotificationResult = &summary
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return j, nil
}

func (r *implRepository) OpenJob(ctx context.Context, opt repo.OpenJobOptions) (model.ReviewJob, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("OpenJob"), err)
		return model.ReviewJob{}, false, repo.ErrFailedToInsert
	}
	defer tx.Rollback()

	existing, err := scanJob(tx.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM review_jobs WHERE project_id = ? AND change_ref = ?`, opt.ProjectID, opt.ChangeRef))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		r.l.Errorf(ctx, "%s select: %v", r.dsn("OpenJob"), err)
		return model.ReviewJob{}, false, repo.ErrFailedToGet
	}

	now := time.Now().UTC()
	var id string
	switch {
	case existing.ID == "":
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO review_jobs (id, project_id, change_ref, title, source_branch, target_branch, author, status,
				request_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, opt.ProjectID, opt.ChangeRef, opt.Title, opt.SourceBranch, opt.TargetBranch, opt.Author,
			string(model.JobPending), opt.RequestID, now, now,
		)
	case existing.Status.Terminal():
		id = existing.ID
		_, err = tx.ExecContext(ctx,
			`UPDATE review_jobs SET title = ?, source_branch = ?, target_branch = ?, author = ?, status = ?,
				content = '', score = NULL, files_reviewed = '[]', total_files = 0, error_message = '', raw_output = '',
				executor = '', is_mock = 0, notification_sent = 0, notification_result = NULL, request_id = ?,
				completed_at = NULL, updated_at = ?
			WHERE id = ?`,
			opt.Title, opt.SourceBranch, opt.TargetBranch, opt.Author, string(model.JobPending), opt.RequestID, now, id,
		)
	default:
		return existing, false, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s write: %v", r.dsn("OpenJob"), err)
		return model.ReviewJob{}, false, repo.ErrFailedToInsert
	}

	job, err := scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM review_jobs WHERE id = ?`, id))
	if err != nil {
		r.l.Errorf(ctx, "%s reload: %v", r.dsn("OpenJob"), err)
		return model.ReviewJob{}, false, repo.ErrFailedToGet
	}
	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("OpenJob"), err)
		return model.ReviewJob{}, false, repo.ErrFailedToInsert
	}
	return job, true, nil
}

// GetOneJob returns a zero job (ID == "") when nothing matches.
func (r *implRepository) GetOneJob(ctx context.Context, opt repo.GetOneJobOptions) (model.ReviewJob, error) {
	query := `SELECT ` + jobColumns + ` FROM review_jobs WHERE id = ?`
	args := []any{opt.ID}
	if opt.ID == "" {
		query = `SELECT ` + jobColumns + ` FROM review_jobs WHERE project_id = ? AND change_ref = ?`
		args = []any{opt.ProjectID, opt.ChangeRef}
	}

	job, err := scanJob(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReviewJob{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneJob"), err)
		return model.ReviewJob{}, repo.ErrFailedToGet
	}
	return job, nil
}

func (r *implRepository) ListJobs(ctx context.Context, opt repo.ListJobsOptions) ([]model.ReviewJob, int, error) {
	var (
		conds []string
		args  []any
	)
	if opt.ProjectID != 0 {
		conds = append(conds, "project_id = ?")
		args = append(args, opt.ProjectID)
	}
	if opt.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(opt.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_jobs`+where, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListJobs"), err)
		return nil, 0, repo.ErrFailedToList
	}

	query := `SELECT ` + jobColumns + ` FROM review_jobs` + where + ` ORDER BY updated_at DESC, id ASC`
	if opt.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opt.Limit, opt.Offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListJobs"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var jobs []model.ReviewJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListJobs"), err)
			return nil, 0, repo.ErrFailedToList
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (r *implRepository) TransitionJob(ctx context.Context, opt repo.TransitionJobOptions) (bool, error) {
	now := time.Now().UTC()

	var (
		res sql.Result
		err error
	)
	switch opt.To {
	case model.JobCompleted:
		var score any
		if opt.Score != nil {
			score = *opt.Score
		}
		res, err = r.db.ExecContext(ctx,
			`UPDATE review_jobs SET status = ?, content = ?, score = ?, files_reviewed = ?, total_files = ?,
				error_message = '', raw_output = ?, executor = ?, is_mock = ?, completed_at = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(opt.To), opt.Content, score, store.EncodeJSON(opt.FilesReviewed), opt.TotalFiles,
			opt.RawOutput, opt.Executor, store.BoolToInt(opt.IsMock), now, now, opt.ID, string(opt.From),
		)
	case model.JobFailed:
		res, err = r.db.ExecContext(ctx,
			`UPDATE review_jobs SET status = ?, error_message = ?, raw_output = ?,
				executor = CASE WHEN ? <> '' THEN ? ELSE executor END, completed_at = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(opt.To), opt.ErrorMessage, opt.RawOutput, opt.Executor, opt.Executor, now, now, opt.ID, string(opt.From),
		)
	default:
		res, err = r.db.ExecContext(ctx,
			`UPDATE review_jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(opt.To), now, opt.ID, string(opt.From),
		)
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TransitionJob"), err)
		return false, repo.ErrFailedToUpdate
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *implRepository) SetNotificationResult(ctx context.Context, id string, summary model.DispatchSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return repo.ErrFailedToUpdate
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE review_jobs SET notification_sent = ?, notification_result = ?, updated_at = ? WHERE id = ?`,
		store.BoolToInt(summary.Success), string(raw), time.Now().UTC(), id,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetNotificationResult"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// CountJobs aggregates jobs of projectID, or of every project when it is 0.
func (r *implRepository) CountJobs(ctx context.Context, projectID int64) (repo.JobCounts, error) {
	where, args := "", []any{}
	if projectID != 0 {
		where = " WHERE project_id = ?"
		args = append(args, projectID)
	}

	counts := repo.JobCounts{ByStatus: map[model.JobStatus]int{}}
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM review_jobs`+where+` GROUP BY status`, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CountJobs"), err)
		return repo.JobCounts{}, repo.ErrFailedToCount
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("CountJobs"), err)
			return repo.JobCounts{}, repo.ErrFailedToCount
		}
		counts.ByStatus[model.JobStatus(status)] = n
		counts.Total += n
	}
	if err := rows.Err(); err != nil {
		return repo.JobCounts{}, repo.ErrFailedToCount
	}
	rows.Close()

	var avg sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT AVG(score), COALESCE(SUM(notification_sent), 0) FROM review_jobs`+where+whereAnd(where)+`status = ?`,
		append(args, string(model.JobCompleted))...,
	).Scan(&avg, &counts.Notified)
	if err != nil {
		r.l.Errorf(ctx, "%s avg: %v", r.dsn("CountJobs"), err)
		return repo.JobCounts{}, repo.ErrFailedToCount
	}
	if avg.Valid {
		v := avg.Float64
		counts.AverageScore = &v
	}
	return counts, nil
}

func whereAnd(where string) string {
	if where == "" {
		return " WHERE "
	}
	return " AND "
}
