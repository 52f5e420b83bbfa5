package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

// Publisher é a parte do canal AMQP que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishImport(ctx context.Context, msg usecase.ImportJobMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.JobID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
