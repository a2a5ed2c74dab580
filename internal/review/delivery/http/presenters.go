package http

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/pkg/response"
)

type listReq struct {
	ProjectID int64  `form:"project_id"`
	Status    string `form:"status"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

func (r listReq) validate() error {
	switch model.JobStatus(r.Status) {
	case "", model.JobPending, model.JobProcessing, model.JobCompleted, model.JobFailed:
		return nil
	default:
		return errInvalidStatus
	}
}

func (r listReq) toInput() review.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := max(r.Offset, 0)
	return review.ListInput{ProjectID: r.ProjectID, Status: model.JobStatus(r.Status), Limit: limit, Offset: offset}
}

type jobResp struct {
	ID                 string                 `json:"id"`
	ProjectID          int64                  `json:"project_id"`
	ChangeRef          int64                  `json:"mr_iid"`
	Title              string                 `json:"mr_title"`
	SourceBranch       string                 `json:"source_branch"`
	TargetBranch       string                 `json:"target_branch"`
	Author             string                 `json:"author"`
	Status             model.JobStatus        `json:"status"`
	Content            string                 `json:"review_content,omitempty"`
	Score              *int                   `json:"review_score"`
	FilesReviewed      []string               `json:"files_reviewed"`
	TotalFiles         int                    `json:"total_files"`
	ErrorMessage       string                 `json:"error_message,omitempty"`
	RawOutput          string                 `json:"raw_output,omitempty"`
	Executor           string                 `json:"executor"`
	IsMock             bool                   `json:"is_mock"`
	NotificationSent   bool                   `json:"notification_sent"`
	NotificationResult *model.DispatchSummary `json:"notification_result,omitempty"`
	RequestID          string                 `json:"request_id,omitempty"`
	CreatedAt          response.DateTime      `json:"created_at"`
	CompletedAt        *response.DateTime     `json:"completed_at,omitempty"`
	UpdatedAt          response.DateTime      `json:"updated_at"`
}

func newJobResp(j model.ReviewJob, withRaw bool) jobResp {
	resp := jobResp{
		ID:                 j.ID,
		ProjectID:          j.ProjectID,
		ChangeRef:          j.ChangeRef,
		Title:              j.Title,
		SourceBranch:       j.SourceBranch,
		TargetBranch:       j.TargetBranch,
		Author:             j.Author,
		Status:             j.Status,
		Content:            j.Content,
		Score:              j.Score,
		FilesReviewed:      j.FilesReviewed,
		TotalFiles:         j.TotalFiles,
		ErrorMessage:       j.ErrorMessage,
		Executor:           j.Executor,
		IsMock:             j.IsMock,
		NotificationSent:   j.NotificationSent,
		NotificationResult: j.NotificationResult,
		RequestID:          j.RequestID,
		CreatedAt:          response.DateTime(j.CreatedAt),
		UpdatedAt:          response.DateTime(j.UpdatedAt),
	}
	if resp.FilesReviewed == nil {
		resp.FilesReviewed = []string{}
	}
	if withRaw {
		resp.RawOutput = j.RawOutput
	}
	resp.CompletedAt = response.OptionalDateTime(j.CompletedAt)
	return resp
}

type listResp struct {
	Jobs   []jobResp `json:"jobs"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

func newListResp(out review.ListOutput) listResp {
	items := make([]jobResp, len(out.Jobs))
	for i, j := range out.Jobs {
		j.Content = ""
		items[i] = newJobResp(j, false)
	}
	return listResp{Jobs: items, Total: out.Total, Limit: out.Limit, Offset: out.Offset}
}

type statsResp struct {
	Total        int            `json:"total_reviews"`
	ByStatus     map[string]int `json:"by_status"`
	AverageScore *float64       `json:"average_score"`
	Notified     int            `json:"notified"`
}

func newStatsResp(out review.StatsOutput) statsResp {
	byStatus := map[string]int{
		string(model.JobPending):    0,
		string(model.JobProcessing): 0,
		string(model.JobCompleted):  0,
		string(model.JobFailed):     0,
	}
	for k, v := range out.ByStatus {
		byStatus[string(k)] = v
	}
	return statsResp{Total: out.Total, ByStatus: byStatus, AverageScore: out.AverageScore, Notified: out.Notified}
}
