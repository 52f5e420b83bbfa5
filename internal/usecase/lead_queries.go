package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

const (
	boardLimit      = 500
	searchLimit     = 50
	defaultPageSize = 50
	maxPageSize     = 500
	dashboardDays   = 30
)

// LeadQueryUseCase reúne as leituras de leads. Atendentes só enxergam os
// próprios leads; admin enxerga todos.
type LeadQueryUseCase struct {
	Repo        entity.LeadRepositoryInterface
	HistoryRepo entity.HistoryRepositoryInterface
}

func NewLeadQueryUseCase(repo entity.LeadRepositoryInterface, historyRepo entity.HistoryRepositoryInterface) *LeadQueryUseCase {
	return &LeadQueryUseCase{Repo: repo, HistoryRepo: historyRepo}
}

// List devolve os leads mais recentes para o quadro kanban.
func (uc *LeadQueryUseCase) List(ctx context.Context, actor *entity.Actor) ([]entity.Lead, error) {
	if actor == nil {
		return nil, &AuthError{}
	}
	leads, err := uc.Repo.List(ctx, actor.Scope(), boardLimit)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar leads: %w", err)
	}
	return leads, nil
}

func (uc *LeadQueryUseCase) Paginated(
	ctx context.Context,
	actor *entity.Actor,
	page, pageSize int,
	filter entity.LeadFilter,
) (*entity.PaginatedResponse[entity.Lead], error) {
	if actor == nil {
		return nil, &AuthError{Message: "Usuário não autenticado"}
	}
	if filter.Status != "" && !entity.LeadStatus(filter.Status).Valid() {
		return nil, &ValidationError{Field: "status", Message: "status inválido"}
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	leads, count, err := uc.Repo.ListPaginated(ctx, actor.Scope(), filter, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("erro ao paginar leads: %w", err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}

	return &entity.PaginatedResponse[entity.Lead]{
		Data:     leads,
		Count:    count,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (uc *LeadQueryUseCase) Search(ctx context.Context, actor *entity.Actor, term string) ([]entity.Lead, error) {
	term = strings.TrimSpace(term)
	if actor == nil || term == "" {
		return []entity.Lead{}, nil
	}
	leads, err := uc.Repo.Search(ctx, actor.Scope(), term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("erro na busca de leads: %w", err)
	}
	return leads, nil
}

func (uc *LeadQueryUseCase) Details(ctx context.Context, actor *entity.Actor, id string) (*LeadDetailsOutput, error) {
	lead, err := loadOwnedLead(ctx, uc.Repo, actor, id)
	if err != nil {
		return nil, err
	}

	history, err := uc.HistoryRepo.FindByLeadID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	if history == nil {
		history = []entity.HistoryLog{}
	}

	return &LeadDetailsOutput{Lead: lead, History: history}, nil
}

// loadOwnedLead busca o lead e barra atendentes olhando lead de outro dono.
func loadOwnedLead(ctx context.Context, repo entity.LeadRepositoryInterface, actor *entity.Actor, id string) (*entity.Lead, error) {
	if actor == nil {
		return nil, &AuthError{}
	}

	lead, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: err.Error()}
		}
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}

	if !actor.IsAdmin() && lead.OwnedByOther(actor.ID) {
		return nil, &DomainError{Code: CodeAccessDenied, Message: "Acesso negado a este lead."}
	}
	return lead, nil
}
