package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
	repo "code-review-pipeline/internal/project/repository"
	"code-review-pipeline/internal/store"
)

const projectColumns = `id, name, path, url, namespace, review_enabled, comment_enabled, enabled_rule_ids, channel_ids,
	exclude_file_types, ignore_patterns, custom_prompt, last_event_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (model.Project, error) {
	var (
		p                                    model.Project
		reviewEnabled, commentEnabled        int
		ruleIDs, channelIDs, exclude, ignore string
		lastEvent                            sql.NullTime
	)
	err := s.Scan(&p.ID, &p.Name, &p.Path, &p.URL, &p.Namespace, &reviewEnabled, &commentEnabled,
		&ruleIDs, &channelIDs, &exclude, &ignore, &p.CustomPrompt, &lastEvent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	p.ReviewEnabled = reviewEnabled == 1
	p.CommentEnabled = commentEnabled == 1
	p.EnabledRuleIDs = store.DecodeStrings(ruleIDs)
	p.ChannelIDs = store.DecodeStrings(channelIDs)
	p.ExcludeFileTypes = store.DecodeStrings(exclude)
	p.IgnorePatterns = store.DecodeStrings(ignore)
	if lastEvent.Valid {
		t := lastEvent.Time
		p.LastEventAt = &t
	}
	return p, nil
}

func (r *implRepository) CreateProject(ctx context.Context, opt repo.CreateProjectOptions) (bool, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO projects (id, name, path, url, namespace, review_enabled, comment_enabled, last_event_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 1, ?, ?, ?)`,
		opt.ID, opt.Name, opt.Path, opt.URL, opt.Namespace, opt.SeenAt.UTC(), now, now,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateProject"), err)
		return false, repo.ErrFailedToInsert
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// GetOneProject returns a zero project when id is unknown.
func (r *implRepository) GetOneProject(ctx context.Context, id int64) (model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneProject"), err)
		return model.Project{}, repo.ErrFailedToGet
	}
	return p, nil
}

func (r *implRepository) ListProjects(ctx context.Context, opt repo.ListProjectsOptions) ([]model.Project, int, error) {
	var (
		conds []string
		args  []any
	)
	if opt.ReviewEnabled != nil {
		conds = append(conds, "review_enabled = ?")
		args = append(args, store.BoolToInt(*opt.ReviewEnabled))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListProjects"), err)
		return nil, 0, repo.ErrFailedToList
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where + ` ORDER BY updated_at DESC, id ASC`
	if opt.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opt.Limit, opt.Offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListProjects"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListProjects"), err)
			return nil, 0, repo.ErrFailedToList
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (r *implRepository) UpdateProject(ctx context.Context, p model.Project) (model.Project, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET review_enabled = ?, comment_enabled = ?, enabled_rule_ids = ?, channel_ids = ?,
			exclude_file_types = ?, ignore_patterns = ?, custom_prompt = ?, updated_at = ?
		WHERE id = ?`,
		store.BoolToInt(p.ReviewEnabled), store.BoolToInt(p.CommentEnabled),
		store.EncodeJSON(p.EnabledRuleIDs), store.EncodeJSON(p.ChannelIDs),
		store.EncodeJSON(p.ExcludeFileTypes), store.EncodeJSON(p.IgnorePatterns),
		p.CustomPrompt, time.Now().UTC(), p.ID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateProject"), err)
		return model.Project{}, repo.ErrFailedToUpdate
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Project{}, nil
	}
	return r.GetOneProject(ctx, p.ID)
}

func (r *implRepository) TouchProject(ctx context.Context, opt repo.TouchProjectOptions) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET
			name = CASE WHEN ? <> '' THEN ? ELSE name END,
			path = CASE WHEN ? <> '' THEN ? ELSE path END,
			url = CASE WHEN ? <> '' THEN ? ELSE url END,
			last_event_at = ?
		WHERE id = ?`,
		opt.Name, opt.Name, opt.Path, opt.Path, opt.URL, opt.URL, opt.SeenAt.UTC(), opt.ID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TouchProject"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

func (r *implRepository) CountProjects(ctx context.Context, activeSince time.Time) (repo.ProjectCounts, error) {
	var c repo.ProjectCounts
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(review_enabled), 0),
			COALESCE(SUM(comment_enabled), 0),
			COALESCE(SUM(CASE WHEN last_event_at >= ? THEN 1 ELSE 0 END), 0)
		FROM projects`, activeSince.UTC(),
	).Scan(&c.Total, &c.ReviewEnabled, &c.CommentsEnabled, &c.ActiveSince)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CountProjects"), err)
		return repo.ProjectCounts{}, repo.ErrFailedToCount
	}
	return c, nil
}
