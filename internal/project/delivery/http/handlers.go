package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/pkg/response"
)

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

	id, err := h.processID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	p, err := h.uc.Detail(ctx, id)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newProjectResp(p))
}

func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	p, err := h.uc.Update(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "project.http.Update: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newProjectResp(p))
}

func (h *handler) Enable(c *gin.Context)  { h.setReview(c, true) }
func (h *handler) Disable(c *gin.Context) { h.setReview(c, false) }

func (h *handler) setReview(c *gin.Context, enabled bool) {
	ctx := c.Request.Context()

	id, err := h.processID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	p, err := h.uc.SetReviewEnabled(ctx, id, enabled)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newProjectResp(p))
}

func (h *handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.Stats(ctx)
	if err != nil {
		h.l.Errorf(ctx, "project.http.Stats: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, statsResp{
		TotalProjects:   out.TotalProjects,
		ReviewEnabled:   out.ReviewEnabled,
		ActiveLastWeek:  out.ActiveLastWeek,
		CommentsEnabled: out.CommentsEnabled,
	})
}
