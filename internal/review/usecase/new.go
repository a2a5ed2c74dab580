package usecase

import (
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/review/repository"
	"code-review-pipeline/pkg/log"
)

type implUseCase struct {
	repo repository.Repository
	l    log.Logger
}

// New creates the review job UseCase.
func New(repo repository.Repository, l log.Logger) review.UseCase {
	return &implUseCase{repo: repo, l: l}
}
