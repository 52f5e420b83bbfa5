package usecase

import (
	"context"
	"math"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

const (
	// LeadBatchSize é o tamanho padrão de cada lote enviado ao banco.
	LeadBatchSize = 100
	// MaxLeadBatchSize cabe no limite de 65535 parâmetros por comando do
	// Postgres com as 16 colunas do upsert.
	MaxLeadBatchSize = 65535 / 16
)

type BulkUpsertOutput struct {
	Added int `json:"added"`
}

// BatchRecorder recebe o resultado de cada lote (métricas).
type BatchRecorder interface {
	RecordImportBatch(result string, leads int)
}

type BulkUpsertLeadsUseCase struct {
	Repo      entity.LeadRepositoryInterface
	BatchSize int
	Metrics   BatchRecorder
}

func NewBulkUpsertLeadsUseCase(repo entity.LeadRepositoryInterface, metrics BatchRecorder) *BulkUpsertLeadsUseCase {
	return &BulkUpsertLeadsUseCase{
		Repo:      repo,
		BatchSize: LeadBatchSize,
		Metrics:   metrics,
	}
}

// Execute grava os leads em lotes sequenciais (upsert por CPF, sobrescrevendo).
// O primeiro lote que falhar aborta a importação; lotes anteriores não são
// desfeitos. Depois de começar, o laço ignora o cancelamento de ctx: só para
// no fim ou no primeiro erro de gravação.
func (uc *BulkUpsertLeadsUseCase) Execute(
	ctx context.Context,
	actor *entity.Actor,
	leads []entity.Lead,
	progress ProgressObserver,
) (*BulkUpsertOutput, error) {
	if actor == nil || actor.ID == "" {
		return nil, &AuthError{}
	}

	batchSize := uc.BatchSize
	if batchSize <= 0 {
		batchSize = LeadBatchSize
	}
	if batchSize > MaxLeadBatchSize {
		batchSize = MaxLeadBatchSize
	}
	ctx = context.WithoutCancel(ctx)

	owner := actor.ID
	owned := make([]entity.Lead, len(leads))
	for i, l := range leads {
		l.UserID = &owner
		owned[i] = l
	}

	total := len(owned)
	processed := 0
	log := zap.L().With(zap.String("user_id", owner), zap.Int("total", total))

	for start, batch := 0, 0; start < total; start, batch = start+batchSize, batch+1 {
		end := start + batchSize
		if end > total {
			end = total
		}
		chunk := owned[start:end]

		if err := uc.Repo.UpsertBatch(ctx, chunk); err != nil {
			log.Error("❌ Erro no lote", zap.Int("batch", batch), zap.Int("processed", processed), zap.Error(err))
			uc.record("error", len(chunk))
			return nil, &WriteError{Batch: batch, Processed: processed, Err: err}
		}

		processed += len(chunk)
		uc.record("ok", len(chunk))

		if progress != nil {
			progress.BatchCompleted(percentOf(processed, total))
		}
	}

	log.Info("✅ Leads importados", zap.Int("added", processed))
	return &BulkUpsertOutput{Added: processed}, nil
}

func (uc *BulkUpsertLeadsUseCase) record(result string, n int) {
	if uc.Metrics != nil {
		uc.Metrics.RecordImportBatch(result, n)
	}
}

func percentOf(done, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
