package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/progress"
	"go.uber.org/zap"
)

// ImportJobMessage é o que vai para a fila: os leads já validados e o dono.
type ImportJobMessage struct {
	JobID string        `json:"job_id"`
	Actor entity.Actor  `json:"actor"`
	Leads []entity.Lead `json:"leads"`
}

type ImportPublisher interface {
	PublishImport(ctx context.Context, msg ImportJobMessage) error
}

type EnqueueImportUseCase struct {
	Queue ImportPublisher
	Jobs  progress.Store
	Now   func() time.Time
}

func NewEnqueueImportUseCase(queue ImportPublisher, jobs progress.Store) *EnqueueImportUseCase {
	return &EnqueueImportUseCase{Queue: queue, Jobs: jobs, Now: time.Now}
}

// Execute valida o CSV na hora (erros de coluna voltam direto para quem
// enviou) e deixa a gravação dos lotes para o worker.
func (uc *EnqueueImportUseCase) Execute(ctx context.Context, actor *entity.Actor, csvText string) (*progress.ImportJob, error) {
	if actor == nil || actor.ID == "" {
		return nil, &AuthError{}
	}

	leads, err := ParseForImport(csvText)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	job := &progress.ImportJob{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		Status:    progress.JobPending,
		Total:     len(leads),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Jobs.Save(ctx, job); err != nil {
		return nil, &TechnicalError{Code: "PROGRESS_STORE_ERROR", Message: "Erro ao registrar importação", Err: err}
	}

	msg := ImportJobMessage{JobID: job.ID, Actor: *actor, Leads: leads}
	if err := uc.Queue.PublishImport(ctx, msg); err != nil {
		job.Status = progress.JobFailed
		job.Error = err.Error()
		job.UpdatedAt = uc.Now()
		if saveErr := uc.Jobs.Save(ctx, job); saveErr != nil {
			zap.L().Warn("⚠️ Falha ao marcar job como failed", zap.String("job_id", job.ID), zap.Error(saveErr))
		}
		return nil, &TechnicalError{Code: "QUEUE_ERROR", Message: "Erro ao enfileirar importação", Err: fmt.Errorf("publish: %w", err)}
	}

	zap.L().Info("📤 Importação enfileirada",
		zap.String("job_id", job.ID), zap.String("user_id", actor.ID), zap.Int("leads", len(leads)))
	return job, nil
}

// ImportStatus devolve o job; usuário comum só enxerga as próprias importações.
func (uc *EnqueueImportUseCase) ImportStatus(ctx context.Context, actor *entity.Actor, jobID string) (*progress.ImportJob, error) {
	if actor == nil {
		return nil, &AuthError{}
	}
	job, err := uc.Jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, progress.ErrJobNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "Importação não encontrada"}
		}
		return nil, &TechnicalError{Code: "PROGRESS_STORE_ERROR", Message: "Erro ao consultar importação", Err: err}
	}
	if !actor.IsAdmin() && job.UserID != actor.ID {
		return nil, &DomainError{Code: CodeAccessDenied, Message: "Acesso negado a esta importação"}
	}
	return job, nil
}
