package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/pkg/log"
	"code-review-pipeline/pkg/response"
)

const (
	headerGitLabToken = "X-Gitlab-Token"
	headerGitLabEvent = "X-Gitlab-Event"
	headerGitLabUUID  = "X-Gitlab-Event-UUID"
)

// Receive handles a GitLab webhook delivery.
func (h *handler) Receive(c *gin.Context) {
	ctx := c.Request.Context()
	ip := c.ClientIP()

	if err := h.security.ValidateIPAddress(ip); err != nil {
		h.l.Warnf(ctx, "webhook.http.Receive: %v", err)
		response.Error(c, errForbidden, nil)
		return
	}
	if err := h.security.ValidateGitLabToken(c.GetHeader(headerGitLabToken)); err != nil {
		h.l.Warnf(ctx, "webhook.http.Receive: token rejected from %s", ip)
		response.Error(c, errInvalidToken, nil)
		return
	}
	if err := h.security.CheckRateLimit(ip); err != nil {
		h.l.Warnf(ctx, "webhook.http.Receive: %v", err)
		response.TooManyRequests(c)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, errBodyTooLarge, nil)
			return
		}
		h.l.Errorf(ctx, "webhook.http.Receive: read body: %v", err)
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.Receive(ctx, webhook.ReceiveInput{
		Body:        body,
		EventHeader: c.GetHeader(headerGitLabEvent),
		DeliveryID:  c.GetHeader(headerGitLabUUID),
		RequestID:   log.RequestIDFrom(ctx),
		RemoteAddr:  ip,
	})
	if err != nil {
		response.Error(c, h.mapError(err), map[string]any{"job_id": out.JobID, "log_id": out.LogID})
		return
	}

	if out.Status == webhook.StatusAccepted {
		response.Accepted(c, newReceiveResp(out))
		return
	}
	response.OK(c, newReceiveResp(out))
}

// Handshake lets an operator check the shared secret without side effects.
func (h *handler) Handshake(c *gin.Context) {
	if !h.security.VerificationEnabled() {
		response.OK(c, handshakeResp{Status: "ok", Verification: "disabled"})
		return
	}
	if err := h.security.ValidateGitLabToken(c.GetHeader(headerGitLabToken)); err != nil {
		response.Error(c, errInvalidToken, nil)
		return
	}
	response.OK(c, handshakeResp{Status: "ok", Verification: "passed"})
}

func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.List(ctx, req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newListResp(out))
}

func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newLogResp(w, true))
}
