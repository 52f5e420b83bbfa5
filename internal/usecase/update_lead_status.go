package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

type UpdateLeadStatusUseCase struct {
	Repo        entity.LeadRepositoryInterface
	HistoryRepo entity.HistoryRepositoryInterface
	Handoff     ApprovedLeadHandoff
	Metrics     StatusRecorder
}

func NewUpdateLeadStatusUseCase(
	repo entity.LeadRepositoryInterface,
	historyRepo entity.HistoryRepositoryInterface,
	handoff ApprovedLeadHandoff,
	metrics StatusRecorder,
) *UpdateLeadStatusUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &UpdateLeadStatusUseCase{
		Repo:        repo,
		HistoryRepo: historyRepo,
		Handoff:     handoff,
		Metrics:     metrics,
	}
}

// Execute move um lead de coluna e registra a mudança em historico_status.
func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, actor *entity.Actor, id string, newStatus entity.LeadStatus) error {
	if !newStatus.Valid() {
		return &ValidationError{Field: "status", Message: "status inválido: " + string(newStatus)}
	}

	lead, err := loadOwnedLead(ctx, uc.Repo, actor, id)
	if err != nil {
		return err
	}

	oldStatus := lead.Status
	if oldStatus == newStatus {
		return nil
	}

	if err := uc.Repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return fmt.Errorf("erro ao atualizar status: %w", err)
	}
	uc.Metrics.RecordStatusChange(string(newStatus))

	// Histórico é auditoria: se falhar, o status já mudou e seguimos.
	if err := uc.HistoryRepo.Insert(ctx, &entity.HistoryLog{
		LeadID:         id,
		StatusAnterior: oldStatus,
		StatusNovo:     newStatus,
	}); err != nil {
		zap.L().Error("⚠️ Erro ao registrar histórico", zap.String("lead_id", id), zap.Error(err))
	}

	if newStatus == entity.StatusAprovado && uc.Handoff != nil {
		lead.Status = newStatus
		go func(l entity.Lead) {
			if err := uc.Handoff.HandoffApprovedLead(context.Background(), &l); err != nil {
				zap.L().Warn("⚠️ Falha ao enviar lead aprovado ao Kommo", zap.String("lead_id", l.ID), zap.Error(err))
			}
		}(*lead)
	}

	return nil
}

// ExecuteBulk muda o status de vários leads de uma vez (sem histórico).
func (uc *UpdateLeadStatusUseCase) ExecuteBulk(ctx context.Context, actor *entity.Actor, ids []string, newStatus entity.LeadStatus) (*BulkStatusOutput, error) {
	if actor == nil {
		return nil, &AuthError{}
	}
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: "status inválido: " + string(newStatus)}
	}
	if len(ids) == 0 {
		return &BulkStatusOutput{}, nil
	}

	n, err := uc.Repo.BulkUpdateStatus(ctx, actor.Scope(), ids, newStatus)
	if err != nil {
		return nil, fmt.Errorf("erro na atualização em massa: %w", err)
	}
	uc.Metrics.RecordStatusChange(string(newStatus))

	return &BulkStatusOutput{Updated: n}, nil
}

type UpdateLeadInfoUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewUpdateLeadInfoUseCase(repo entity.LeadRepositoryInterface) *UpdateLeadInfoUseCase {
	return &UpdateLeadInfoUseCase{Repo: repo}
}

func (uc *UpdateLeadInfoUseCase) Execute(ctx context.Context, actor *entity.Actor, id string, update entity.LeadInfoUpdate) error {
	if _, err := loadOwnedLead(ctx, uc.Repo, actor, id); err != nil {
		return err
	}
	if update.Empty() {
		return nil
	}
	if update.UF != nil && *update.UF != "" && !ufPattern.MatchString(*update.UF) {
		return &ValidationError{Field: "uf", Message: "must have 2 letters"}
	}

	if err := uc.Repo.UpdateInfo(ctx, id, update); err != nil {
		return fmt.Errorf("erro ao atualizar lead: %w", err)
	}
	return nil
}
