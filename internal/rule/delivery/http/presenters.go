package http

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/pkg/response"
)

type createReq struct {
	Name        string         `json:"name" binding:"required,max=255"`
	EventType   string         `json:"event_type" binding:"max=64"`
	Description string         `json:"description"`
	Pattern     map[string]any `json:"match_rules" binding:"required"`
	Active      *bool          `json:"is_active"`
}

func (r createReq) toInput() rule.CreateInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return rule.CreateInput{
		Name:        r.Name,
		EventType:   r.EventType,
		Description: r.Description,
		Pattern:     r.Pattern,
		Active:      active,
	}
}

type updateReq struct {
	ID          string         `json:"-"`
	Name        string         `json:"name" binding:"max=255"`
	EventType   string         `json:"event_type" binding:"max=64"`
	Description string         `json:"description"`
	Pattern     map[string]any `json:"match_rules"`
	Active      *bool          `json:"is_active"`
}

func (r updateReq) toInput() rule.UpdateInput {
	return rule.UpdateInput{
		ID:          r.ID,
		Name:        r.Name,
		EventType:   r.EventType,
		Description: r.Description,
		Pattern:     r.Pattern,
		Active:      r.Active,
	}
}

type listReq struct {
	ActiveOnly bool `form:"active"`
}

func ruleListInput(r listReq) rule.ListInput {
	return rule.ListInput{ActiveOnly: r.ActiveOnly}
}

type ruleResp struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	EventType   string            `json:"event_type"`
	Description string            `json:"description"`
	Pattern     map[string]any    `json:"match_rules"`
	Active      bool              `json:"is_active"`
	CreatedAt   response.DateTime `json:"created_at"`
	UpdatedAt   response.DateTime `json:"updated_at"`
}

func newRuleResp(r model.EventRule) ruleResp {
	return ruleResp{
		ID:          r.ID,
		Name:        r.Name,
		EventType:   r.EventType,
		Description: r.Description,
		Pattern:     r.Pattern,
		Active:      r.Active,
		CreatedAt:   response.DateTime(r.CreatedAt),
		UpdatedAt:   response.DateTime(r.UpdatedAt),
	}
}

type listResp struct {
	Rules []ruleResp `json:"rules"`
	Total int        `json:"total"`
}

func newListResp(out rule.ListOutput) listResp {
	rules := make([]ruleResp, len(out.Rules))
	for i, r := range out.Rules {
		rules[i] = newRuleResp(r)
	}
	return listResp{Rules: rules, Total: out.Total}
}
