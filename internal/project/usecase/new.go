package usecase

import (
	"time"

	"code-review-pipeline/internal/project"
	"code-review-pipeline/internal/project/repository"
	"code-review-pipeline/pkg/log"
)

type implUseCase struct {
	repo repository.Repository
	l    log.Logger
	now  func() time.Time
}

// New creates the project UseCase.
func New(repo repository.Repository, l log.Logger) project.UseCase {
	return &implUseCase{repo: repo, l: l, now: time.Now}
}
