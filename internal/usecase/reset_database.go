package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

type ResetDatabaseUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewResetDatabaseUseCase(repo entity.LeadRepositoryInterface) *ResetDatabaseUseCase {
	return &ResetDatabaseUseCase{Repo: repo}
}

// Execute apaga histórico e leads. Só ADMIN.
func (uc *ResetDatabaseUseCase) Execute(ctx context.Context, actor *entity.Actor) error {
	if actor == nil {
		return &AuthError{}
	}
	if !actor.IsAdmin() {
		return &DomainError{Code: CodeForbidden, Message: "Apenas ADMIN pode limpar a base"}
	}

	if err := uc.Repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("erro ao limpar a base: %w", err)
	}

	zap.L().Warn("🧹 Base de leads zerada", zap.String("admin", actor.Nome))
	return nil
}
