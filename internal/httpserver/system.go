package httpserver

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/executor"
	pkgErrors "code-review-pipeline/pkg/errors"
	"code-review-pipeline/pkg/response"
)

type executorResp struct {
	Provider  string `json:"provider"`
	CLI       string `json:"cli,omitempty"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Timeout   string `json:"timeout"`
}

// executorProbe reports whether the configured reviewer CLI can be started.
func (srv *HTTPServer) executorProbe(c *gin.Context) {
	ctx := c.Request.Context()

	provider := srv.executorCfg.Provider
	if provider == "" {
		provider = executor.ProviderMock
	}
	timeout := srv.executorCfg.Timeout
	if timeout <= 0 {
		timeout = executor.DefaultTimeout
	}
	resp := executorResp{Provider: provider, CLI: srv.executorCfg.CLIPath(), Timeout: timeout.Round(time.Second).String()}

	if resp.CLI == "" {
		resp.Available = true
		resp.Version = provider
		response.OK(c, resp)
		return
	}
	if srv.prober == nil {
		response.Error(c, pkgErrors.ErrServiceUnavailable, nil)
		return
	}

	version, err := srv.prober.Probe(ctx, resp.CLI)
	if err != nil {
		srv.l.Warnf(ctx, "httpserver.executorProbe: %s: %v", resp.CLI, err)
		resp.Error = err.Error()
	} else {
		resp.Available = true
		resp.Version = version
	}
	response.OK(c, resp)
}

type repositoryResp struct {
	ProjectID     int64  `json:"project_id"`
	Path          string `json:"path"`
	Branch        string `json:"current_branch"`
	Commit        string `json:"latest_commit"`
	CommitMessage string `json:"latest_commit_message"`
}

// repositoryInfo describes the working copy of one project.
func (srv *HTTPServer) repositoryInfo(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.repos == nil {
		response.Error(c, pkgErrors.ErrServiceUnavailable, nil)
		return
	}
	id, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, pkgErrors.ErrBadRequest, nil)
		return
	}

	path := srv.repos.Path(id)
	if _, err := os.Stat(path); err != nil {
		response.Error(c, pkgErrors.NewHTTPError(404, "working copy not found"), nil)
		return
	}
	info := srv.repos.Info(ctx, path)
	response.OK(c, repositoryResp{
		ProjectID:     id,
		Path:          path,
		Branch:        info.Branch,
		Commit:        info.Commit,
		CommitMessage: info.Message,
	})
}
