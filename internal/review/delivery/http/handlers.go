package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	pkgErrors "code-review-pipeline/pkg/errors"
	"code-review-pipeline/pkg/response"
)

func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err, nil)
		return
	}
	if err := req.validate(); err != nil {
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

	job, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newJobResp(job, true))
}

func (h *handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var projectID int64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, pkgErrors.ErrBadRequest, nil)
			return
		}
		projectID = id
	}

	out, err := h.uc.Stats(ctx, projectID)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newStatsResp(out))
}

// Redispatch re-sends the stored report of a completed job to its channels.
func (h *handler) Redispatch(c *gin.Context) {
	ctx := c.Request.Context()

	if h.dispatcher == nil {
		response.Error(c, pkgErrors.ErrServiceUnavailable, nil)
		return
	}

	summary, err := h.dispatcher.Redispatch(ctx, c.Param("id"))
	if err != nil {
		h.l.Warnf(ctx, "review.http.Redispatch: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, summary)
}
