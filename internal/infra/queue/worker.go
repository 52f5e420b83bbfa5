package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/progress"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
	"go.uber.org/zap"
)

// LeadUpserter é o driver de lotes (BulkUpsertLeadsUseCase).
type LeadUpserter interface {
	Execute(ctx context.Context, actor *entity.Actor, leads []entity.Lead, observer usecase.ProgressObserver) (*usecase.BulkUpsertOutput, error)
}

// ImportReporter avisa alguém quando uma importação termina. Pode ser nil.
type ImportReporter interface {
	SendImportReport(job *progress.ImportJob) error
}

type Worker struct {
	Channel  *amqp.Channel
	Upsert   LeadUpserter
	Jobs     progress.Store
	Reporter ImportReporter
}

func NewWorker(ch *amqp.Channel, upsert LeadUpserter, jobs progress.Store, reporter ImportReporter) *Worker {
	return &Worker{
		Channel:  ch,
		Upsert:   upsert,
		Jobs:     jobs,
		Reporter: reporter,
	}
}

// Start consome a fila até o contexto acabar. Prefetch 1: uma importação por
// vez, então lotes de jobs diferentes nunca se intercalam.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("falha ao configurar prefetch: %w", err)
	}

	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	zap.L().Info("👷 Worker de importação aguardando", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("⚠️ Worker de importação encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			if err := w.HandleDelivery(ctx, d.Body); err != nil {
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// HandleDelivery processa uma mensagem. Só devolve erro quando a mensagem não
// presta (vai para a DLQ); falha de gravação fica registrada no job.
// Uma importação iniciada vai até o fim mesmo com ctx cancelado.
func (w *Worker) HandleDelivery(ctx context.Context, body []byte) error {
	var msg usecase.ImportJobMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		zap.L().Error("❌ [WORKER] JSON inválido", zap.Error(err))
		return err
	}
	if msg.JobID == "" {
		zap.L().Error("❌ [WORKER] Mensagem sem job_id")
		return fmt.Errorf("mensagem sem job_id")
	}

	ctx = context.WithoutCancel(ctx)
	log := zap.L().With(zap.String("job_id", msg.JobID), zap.String("user_id", msg.Actor.ID))
	log.Info("📥 [WORKER] Importação recebida", zap.Int("leads", len(msg.Leads)))

	job, err := w.Jobs.Get(ctx, msg.JobID)
	if err != nil {
		log.Warn("⚠️ Job não encontrado no store, recriando", zap.Error(err))
		job = &progress.ImportJob{ID: msg.JobID, UserID: msg.Actor.ID, Total: len(msg.Leads)}
	}

	tracker := progress.NewTracker(w.Jobs, job, func(err error) {
		log.Warn("⚠️ Falha ao gravar progresso", zap.Error(err))
	})
	if err := tracker.Start(ctx); err != nil {
		log.Warn("⚠️ Falha ao marcar job como running", zap.Error(err))
	}

	added := 0
	out, runErr := w.Upsert.Execute(ctx, &msg.Actor, msg.Leads, tracker)
	if out != nil {
		added = out.Added
	}
	var writeErr *usecase.WriteError
	if errors.As(runErr, &writeErr) {
		added = writeErr.Processed
	}

	if err := tracker.Finish(ctx, added, runErr); err != nil {
		log.Warn("⚠️ Falha ao finalizar job", zap.Error(err))
	}

	if runErr != nil {
		log.Error("❌ [WORKER] Importação falhou", zap.Int("added", added), zap.Error(runErr))
	} else {
		log.Info("✅ [WORKER] Importação concluída", zap.Int("added", added))
	}

	if w.Reporter != nil {
		if err := w.Reporter.SendImportReport(tracker.Job()); err != nil {
			log.Warn("⚠️ Falha ao enviar relatório da importação", zap.Error(err))
		}
	}
	return nil
}
