package usecase

import (
	"context"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

// ApprovedLeadHandoff leva o lead aprovado para o CRM de vendas (Kommo).
type ApprovedLeadHandoff interface {
	HandoffApprovedLead(ctx context.Context, lead *entity.Lead) error
}

// CredentialNormalizer gera as variações de telefone aceitas no login.
type CredentialNormalizer interface {
	Candidates(credential string) []string
}

// StatusRecorder recebe eventos de negócio para métricas.
type StatusRecorder interface {
	RecordStatusChange(status string)
	RecordLogin(result string)
}

type noopRecorder struct{}

func (noopRecorder) RecordStatusChange(string) {}
func (noopRecorder) RecordLogin(string)        {}
