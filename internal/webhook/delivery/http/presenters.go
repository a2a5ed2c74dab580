package http

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/pkg/response"
)

type receiveResp struct {
	Status     webhook.Status `json:"status"`
	SkipReason string         `json:"skip_reason,omitempty"`
	JobID      string         `json:"job_id,omitempty"`
	LogID      string         `json:"log_id,omitempty"`
}

func newReceiveResp(out webhook.ReceiveOutput) receiveResp {
	return receiveResp{Status: out.Status, SkipReason: out.SkipReason, JobID: out.JobID, LogID: out.LogID}
}

type handshakeResp struct {
	Status       string `json:"status"`
	Verification string `json:"verification"`
}

type listReq struct {
	ProjectID  int64  `form:"project_id"`
	EventType  string `form:"event_type"`
	SkipReason string `form:"skip_reason"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

func (r listReq) toInput() webhook.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return webhook.ListInput{
		ProjectID:  r.ProjectID,
		EventType:  r.EventType,
		SkipReason: r.SkipReason,
		Limit:      limit,
		Offset:     max(r.Offset, 0),
	}
}

type logResp struct {
	ID           string            `json:"id"`
	EventType    string            `json:"event_type"`
	ProjectID    int64             `json:"project_id"`
	ChangeRef    int64             `json:"mr_iid,omitempty"`
	UserName     string            `json:"user_name"`
	SourceBranch string            `json:"source_branch,omitempty"`
	TargetBranch string            `json:"target_branch,omitempty"`
	RemoteAddr   string            `json:"remote_addr"`
	RequestID    string            `json:"request_id,omitempty"`
	Processed    bool              `json:"processed"`
	SkipReason   string            `json:"skip_reason,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Payload      string            `json:"payload,omitempty"`
	CreatedAt    response.DateTime `json:"created_at"`
}

func newLogResp(w model.WebhookLog, withPayload bool) logResp {
	resp := logResp{
		ID:           w.ID,
		EventType:    w.EventType,
		ProjectID:    w.ProjectID,
		ChangeRef:    w.ChangeRef,
		UserName:     w.UserName,
		SourceBranch: w.SourceBranch,
		TargetBranch: w.TargetBranch,
		RemoteAddr:   w.RemoteAddr,
		RequestID:    w.RequestID,
		Processed:    w.Processed,
		SkipReason:   w.SkipReason,
		ErrorMessage: w.ErrorMessage,
		CreatedAt:    response.DateTime(w.CreatedAt),
	}
	if withPayload {
		resp.Payload = string(w.Payload)
	}
	return resp
}

type listResp struct {
	Logs   []logResp `json:"logs"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

func newListResp(out webhook.ListOutput) listResp {
	logs := make([]logResp, 0, len(out.Logs))
	for _, w := range out.Logs {
		logs = append(logs, newLogResp(w, false))
	}
	return listResp{Logs: logs, Total: out.Total, Limit: out.Limit, Offset: out.Offset}
}
