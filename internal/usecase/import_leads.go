package usecase

import (
	"context"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

type ImportLeadsOutput struct {
	Parsed int `json:"parsed"`
	Added  int `json:"added"`
}

type ImportLeadsUseCase struct {
	Upsert *BulkUpsertLeadsUseCase
}

func NewImportLeadsUseCase(upsert *BulkUpsertLeadsUseCase) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{Upsert: upsert}
}

// ParseForImport lê o CSV e recusa arquivos sem nenhum lead aproveitável.
func ParseForImport(csvText string) ([]entity.Lead, error) {
	leads, err := ParseLeadsCSV(csvText)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, &EmptyResultError{}
	}
	return leads, nil
}

func (uc *ImportLeadsUseCase) Execute(
	ctx context.Context,
	actor *entity.Actor,
	csvText string,
	progress ProgressObserver,
) (*ImportLeadsOutput, error) {
	if actor == nil {
		return nil, &AuthError{}
	}

	leads, err := ParseForImport(csvText)
	if err != nil {
		return nil, err
	}
	zap.L().Info("📥 Mailing lido", zap.String("user_id", actor.ID), zap.Int("leads", len(leads)))

	out, err := uc.Upsert.Execute(ctx, actor, leads, progress)
	if err != nil {
		return nil, err
	}

	return &ImportLeadsOutput{Parsed: len(leads), Added: out.Added}, nil
}
