package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/internal/middleware"
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/store"
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/internal/webhook/repository/sqlite"
	"code-review-pipeline/internal/webhook/usecase"
	"code-review-pipeline/pkg/log"
)

type fakePipeline struct {
	pipeline.UseCase
	out pipeline.Outcome
	err error
}

func (f *fakePipeline) Handle(context.Context, model.Event) (pipeline.Outcome, error) {
	return f.out, f.err
}

const mrBody = `{"object_kind":"merge_request","project":{"id":42,"name":"demo"},"object_attributes":{"iid":7}}`

func setup(t *testing.T, p pipeline.UseCase, sec webhook.SecurityConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := log.NewNop()
	uc := usecase.New(sqlite.New(store.NewTestDB(t), l), p, 0, nil, l)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), New(l, uc, sec), middleware.New(l, "tok"))
	return r
}

func do(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type receiveBody struct {
	Data struct {
		Status     string `json:"status"`
		SkipReason string `json:"skip_reason"`
		JobID      string `json:"job_id"`
		LogID      string `json:"log_id"`
	} `json:"data"`
}

func TestReceive(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusQueued, JobID: "job-1"}}
	r := setup(t, p, webhook.SecurityConfig{Secret: "s3cret"})
	hdr := map[string]string{headerGitLabToken: "s3cret", headerGitLabEvent: "Merge Request Hook", headerGitLabUUID: "u-1"}

	w := do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, hdr)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var got receiveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "accepted", got.Data.Status)
	assert.Equal(t, "job-1", got.Data.JobID)
	assert.NotEmpty(t, got.Data.LogID)

	w = do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, hdr)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "duplicate", got.Data.Status)

	w = do(r, http.MethodPost, "/api/v1/webhook/gitlab", "{not json", map[string]string{headerGitLabToken: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ignored", got.Data.Status)

	w = do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, map[string]string{headerGitLabToken: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReceive_QueueFull(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusRejected, JobID: "job-1"}, err: pipeline.ErrQueueFull}
	r := setup(t, p, webhook.SecurityConfig{})

	w := do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReceive_MissingIIDAcknowledged(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusIgnored, Detail: pipeline.ErrNoChangeRef.Error()}}
	r := setup(t, p, webhook.SecurityConfig{})

	w := do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got receiveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ignored", got.Data.Status)
}

func TestReceive_IPAllowList(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusSkipped, SkipReason: model.SkipReviewDisabled}}
	r := setup(t, p, webhook.SecurityConfig{AllowedIPs: []string{"10.0.0.0/8"}})

	// httptest requests come from 192.0.2.1
	w := do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandshake(t *testing.T) {
	r := setup(t, &fakePipeline{}, webhook.SecurityConfig{Secret: "s3cret"})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/webhook/gitlab", "", map[string]string{headerGitLabToken: "s3cret"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/webhook/gitlab", "", nil).Code)

	open := setup(t, &fakePipeline{}, webhook.SecurityConfig{})
	w := do(open, http.MethodGet, "/api/v1/webhook/gitlab", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verification":"disabled"`)
}

func TestLogRoutes(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusSkipped, SkipReason: model.SkipNoRuleMatched}}
	r := setup(t, p, webhook.SecurityConfig{})
	admin := map[string]string{middleware.HeaderAdminToken: "tok"}

	w := do(r, http.MethodPost, "/api/v1/webhook/gitlab", mrBody, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got receiveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/webhook-logs", "", nil).Code)

	w = do(r, http.MethodGet, "/api/v1/webhook-logs?skip_reason=no_rule_matched", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data struct {
			Total int `json:"total"`
			Logs  []struct {
				ID        string `json:"id"`
				Processed bool   `json:"processed"`
				Payload   string `json:"payload"`
			} `json:"logs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, got.Data.LogID, list.Data.Logs[0].ID)
	assert.Empty(t, list.Data.Logs[0].Payload)

	w = do(r, http.MethodGet, "/api/v1/webhook-logs/"+got.Data.LogID, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "merge_request")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/webhook-logs/nope", "", admin).Code)
}
