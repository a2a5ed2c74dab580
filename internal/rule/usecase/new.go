package usecase

import (
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/internal/rule/repository"
	"code-review-pipeline/pkg/log"
)

type implUseCase struct {
	repo repository.Repository
	l    log.Logger
}

// New creates the rule UseCase.
func New(repo repository.Repository, l log.Logger) rule.UseCase {
	return &implUseCase{repo: repo, l: l}
}
