package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

// Acesso padrão de um atendente novo quando o admin não informa data_fim.
const defaultAccessWindow = 30 * 24 * time.Hour

type ManageUsersUseCase struct {
	Repo entity.UserRepositoryInterface
	Now  func() time.Time
}

func NewManageUsersUseCase(repo entity.UserRepositoryInterface) *ManageUsersUseCase {
	return &ManageUsersUseCase{Repo: repo, Now: time.Now}
}

func requireAdmin(actor *entity.Actor) error {
	if actor == nil {
		return &AuthError{}
	}
	if !actor.IsAdmin() {
		return &DomainError{Code: CodeForbidden, Message: "Apenas ADMIN pode gerenciar usuários"}
	}
	return nil
}

func (uc *ManageUsersUseCase) List(ctx context.Context, actor *entity.Actor) ([]entity.AuthorizedUser, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}
	return users, nil
}

func (uc *ManageUsersUseCase) Create(ctx context.Context, actor *entity.Actor, input UserInput) (*entity.AuthorizedUser, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if errs := ValidateUserInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	now := uc.Now()
	user := &entity.AuthorizedUser{
		Nome:        strings.TrimSpace(input.Nome),
		Telefone:    strings.TrimSpace(input.Telefone),
		Status:      entity.UserAtivo,
		DataInicio:  now,
		DataFim:     input.DataFim,
		Observacoes: input.Observacoes,
	}
	if input.Status != "" {
		user.Status = entity.UserStatus(input.Status)
	}
	if user.DataFim == nil {
		fim := now.Add(defaultAccessWindow)
		user.DataFim = &fim
	}

	if err := uc.Repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("erro ao salvar usuário: %w", err)
	}
	return user, nil
}

func (uc *ManageUsersUseCase) Update(ctx context.Context, actor *entity.Actor, id string, input UserInput) (*entity.AuthorizedUser, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if errs := ValidateUserInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	user := &entity.AuthorizedUser{
		ID:          id,
		Nome:        strings.TrimSpace(input.Nome),
		Telefone:    strings.TrimSpace(input.Telefone),
		Status:      entity.UserStatus(input.Status),
		DataFim:     input.DataFim,
		Observacoes: input.Observacoes,
	}
	if user.Status == "" {
		user.Status = entity.UserAtivo
	}
	if user.DataFim == nil {
		fim := uc.Now().Add(defaultAccessWindow)
		user.DataFim = &fim
	}

	if err := uc.Repo.Update(ctx, user); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: err.Error()}
		}
		return nil, fmt.Errorf("erro ao atualizar usuário: %w", err)
	}
	return user, nil
}

// Delete remove o atendente; os leads dele ficam sem dono.
func (uc *ManageUsersUseCase) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := uc.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return &DomainError{Code: CodeNotFound, Message: err.Error()}
		}
		return fmt.Errorf("erro ao remover usuário: %w", err)
	}
	return nil
}
