package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/pkg/response"
)

func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	ch, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "notification.http.Create: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newChannelResp(ch))
}

func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.List(ctx, notification.ListInput{Type: model.ChannelType(req.Type), ActiveOnly: req.ActiveOnly})
	if err != nil {
		h.l.Errorf(ctx, "notification.http.List: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newListResp(out))
}

func (h *handler) Detail(c *gin.Context) {
	ch, err := h.uc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newChannelResp(ch))
}

func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	ch, err := h.uc.Update(ctx, req.toInput(c.Param("id")))
	if err != nil {
		h.l.Warnf(ctx, "notification.http.Update: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newChannelResp(ch))
}

func (h *handler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, nil)
}

// Test sends a probe through one channel. A failed delivery still answers 200
// with success=false so the caller sees the provider message.
func (h *handler) Test(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.uc.Test(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newTestResp(res))
}
