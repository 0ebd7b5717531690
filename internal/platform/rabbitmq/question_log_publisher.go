package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfqa/internal/model"
)

// QuestionLogPublisher hands answered questions to the persist worker.
type QuestionLogPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewQuestionLogPublisher(conn *amqp.Connection, queueName string) *QuestionLogPublisher {
	return &QuestionLogPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *QuestionLogPublisher) Publish(ctx context.Context, entry model.QuestionLog) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	msg, err := questionLogPublishing(entry)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return fmt.Errorf("publish question log failed: %w", err)
	}
	return nil
}

// questionLogPublishing encodes entry as a persistent JSON message.
func questionLogPublishing(entry model.QuestionLog) (amqp.Publishing, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal question log failed: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
		Timestamp:    entry.CreatedAt,
	}, nil
}
