package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"code-review-pipeline/internal/model"
	repo "code-review-pipeline/internal/rule/repository"
	"code-review-pipeline/internal/store"
)

const ruleColumns = `id, name, event_type, description, pattern, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(s rowScanner) (model.EventRule, error) {
	var (
		rule    model.EventRule
		pattern string
		active  int
	)
	err := s.Scan(&rule.ID, &rule.Name, &rule.EventType, &rule.Description, &pattern, &active, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return model.EventRule{}, err
	}
	rule.Pattern = store.DecodeObject(pattern)
	rule.Active = active == 1
	return rule, nil
}

func (r *implRepository) CreateRule(ctx context.Context, opt repo.CreateRuleOptions) (model.EventRule, error) {
	now := time.Now().UTC()
	rule := model.EventRule{
		ID:          uuid.NewString(),
		Name:        opt.Name,
		EventType:   opt.EventType,
		Description: opt.Description,
		Pattern:     opt.Pattern,
		Active:      opt.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_rules (id, name, event_type, description, pattern, canonical, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.Name, rule.EventType, rule.Description, opt.Canonical, opt.Canonical,
		store.BoolToInt(rule.Active), rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.EventRule{}, repo.ErrDuplicate
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateRule"), err)
		return model.EventRule{}, repo.ErrFailedToInsert
	}
	return rule, nil
}

// GetOneRule returns a zero rule (ID == "") when nothing matches.
func (r *implRepository) GetOneRule(ctx context.Context, opt repo.GetOneRuleOptions) (model.EventRule, error) {
	var (
		conds []string
		args  []any
	)
	if opt.ID != "" {
		conds = append(conds, "id = ?")
		args = append(args, opt.ID)
	}
	if opt.Canonical != "" {
		conds = append(conds, "canonical = ?")
		args = append(args, opt.Canonical)
	}
	where := "1=1"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	rule, err := scanRule(r.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM event_rules WHERE `+where+` LIMIT 1`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.EventRule{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneRule"), err)
		return model.EventRule{}, repo.ErrFailedToGet
	}
	return rule, nil
}

func (r *implRepository) ListRules(ctx context.Context, opt repo.ListRulesOptions) ([]model.EventRule, error) {
	var (
		conds []string
		args  []any
	)
	if opt.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	if opt.IDs != nil {
		if len(opt.IDs) == 0 {
			return nil, nil
		}
		conds = append(conds, "id IN (?"+strings.Repeat(",?", len(opt.IDs)-1)+")")
		for _, id := range opt.IDs {
			args = append(args, id)
		}
	}
	query := `SELECT ` + ruleColumns + ` FROM event_rules`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListRules"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var rules []model.EventRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListRules"), err)
			return nil, repo.ErrFailedToList
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *implRepository) UpdateRule(ctx context.Context, opt repo.UpdateRuleOptions) (model.EventRule, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE event_rules SET name = ?, event_type = ?, description = ?, pattern = ?, canonical = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		opt.Name, opt.EventType, opt.Description, opt.Canonical, opt.Canonical, store.BoolToInt(opt.Active), time.Now().UTC(), opt.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.EventRule{}, repo.ErrDuplicate
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateRule"), err)
		return model.EventRule{}, repo.ErrFailedToUpdate
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.EventRule{}, nil
	}
	return r.GetOneRule(ctx, repo.GetOneRuleOptions{ID: opt.ID})
}

func (r *implRepository) DeleteRule(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_rules WHERE id = ?`, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteRule"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
