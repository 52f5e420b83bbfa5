package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

type CreateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, actor *entity.Actor, input CreateLeadInput) (*entity.Lead, error) {
	if actor == nil {
		return nil, &AuthError{}
	}

	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	// Atendente sempre fica com o lead; admin pode atribuir a outro atendente.
	owner := actor.ID
	if actor.IsAdmin() && strings.TrimSpace(input.UserID) != "" {
		owner = strings.TrimSpace(input.UserID)
	}

	status := entity.StatusNovo
	if input.Status != "" {
		status = entity.LeadStatus(input.Status)
	}

	lead := &entity.Lead{
		UserID:           &owner,
		Nome:             strings.TrimSpace(input.Nome),
		CPF:              strings.TrimSpace(input.CPF),
		Beneficio:        optionalText(input.Beneficio, input.Beneficio != ""),
		DDB:              optionalDate(input.DDB, true),
		ValorBeneficio:   input.ValorBeneficio,
		DataNascimento:   optionalDate(input.DataNascimento, true),
		Idade:            input.Idade,
		CodigoEspecie:    input.CodigoEspecie,
		MargemDisponivel: input.MargemDisponivel,
		Municipio:        optionalText(input.Municipio, input.Municipio != ""),
		UF:               optionalText(strings.ToUpper(input.UF), input.UF != ""),
		Telefone1:        optionalText(input.Telefone1, input.Telefone1 != ""),
		Telefone2:        optionalText(input.Telefone2, input.Telefone2 != ""),
		Telefone3:        optionalText(input.Telefone3, input.Telefone3 != ""),
		Status:           status,
		Observacoes:      optionalText(input.Observacoes, input.Observacoes != ""),
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: fmt.Sprintf("erro ao criar lead: %v", err),
			Err:     err,
		}
	}

	zap.L().Info("📝 Lead criado", zap.String("lead_id", lead.ID), zap.String("user_id", owner))
	return lead, nil
}
