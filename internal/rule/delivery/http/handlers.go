package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/pkg/response"
)

func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	r, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "rule.http.Create: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newRuleResp(r))
}

func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.List(ctx, ruleListInput(req))
	if err != nil {
		h.l.Errorf(ctx, "rule.http.List: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newListResp(out))
}

func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	r, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newRuleResp(r))
}

func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}
	req.ID = c.Param("id")

	r, err := h.uc.Update(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "rule.http.Update: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, newRuleResp(r))
}

func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.Delete(ctx, c.Param("id")); err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, nil)
}

// EnsureDefaults seeds the built-in rules and reports how many were created.
func (h *handler) EnsureDefaults(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.EnsureDefaults(ctx)
	if err != nil {
		h.l.Errorf(ctx, "rule.http.EnsureDefaults: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}
	response.OK(c, gin.H{"created": out.Created, "total": out.Total})
}
