package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgErrors "code-review-pipeline/pkg/errors"
	"code-review-pipeline/pkg/response"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, response.Resp) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp response.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSuccessResponses(t *testing.T) {
	tests := map[string]struct {
		send func(*gin.Context, any)
		code int
	}{
		"ok":       {send: response.OK, code: http.StatusOK},
		"accepted": {send: response.Accepted, code: http.StatusAccepted},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w, resp := record(func(c *gin.Context) { tc.send(c, map[string]string{"job_id": "j-1"}) })

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, 0, resp.ErrorCode)
			assert.Equal(t, response.MessageSuccess, resp.Message)
			assert.Equal(t, map[string]any{"job_id": "j-1"}, resp.Data)
		})
	}
}

func TestError(t *testing.T) {
	tests := map[string]struct {
		err     error
		code    int
		message string
	}{
		"plain error answers 400": {
			err:     errors.New("bad input"),
			code:    http.StatusBadRequest,
			message: "bad input",
		},
		"http error picks the status": {
			err:     pkgErrors.ErrServiceUnavailable,
			code:    http.StatusServiceUnavailable,
			message: "service unavailable",
		},
		"wrapped http error": {
			err:     fmt.Errorf("handler: %w", pkgErrors.NewHTTPError(http.StatusConflict, "rule pattern already exists")),
			code:    http.StatusConflict,
			message: "rule pattern already exists",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w, resp := record(func(c *gin.Context) { response.Error(c, tc.err, nil) })

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.code, resp.ErrorCode)
			assert.Equal(t, tc.message, resp.Message)
			assert.Equal(t, map[string]any{}, resp.Data)
		})
	}
}

func TestError_KeepsData(t *testing.T) {
	_, resp := record(func(c *gin.Context) {
		response.Error(c, pkgErrors.ErrBadRequest, map[string]any{"field": "project_id"})
	})
	assert.Equal(t, map[string]any{"field": "project_id"}, resp.Data)
}

func TestFixedResponses(t *testing.T) {
	tests := map[string]struct {
		send    func(*gin.Context)
		code    int
		message string
	}{
		"internal": {
			send:    func(c *gin.Context) { response.InternalError(c, errors.New("db down")) },
			code:    http.StatusInternalServerError,
			message: response.DefaultErrorMessage,
		},
		"unauthorized": {send: response.Unauthorized, code: http.StatusUnauthorized, message: "Unauthorized"},
		"too many":     {send: response.TooManyRequests, code: http.StatusTooManyRequests, message: "Too many requests"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w, resp := record(tc.send)
			require.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.code, resp.ErrorCode)
			assert.Equal(t, tc.message, resp.Message)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}
