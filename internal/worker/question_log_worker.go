package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfqa/internal/model"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/platform/rabbitmq"
	"pdfqa/internal/repository"
)

const persistTimeout = 5 * time.Second

// QuestionLogWorker consumes question log events and writes them to the store.
type QuestionLogWorker struct {
	conn      *amqp.Connection
	repo      repository.QuestionLogRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQuestionLogWorker(conn *amqp.Connection, repo repository.QuestionLogRepository, queueName string) *QuestionLogWorker {
	return &QuestionLogWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *QuestionLogWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					logger.L.Warnw("question log worker dropped delivery", "error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *QuestionLogWorker) handle(ctx context.Context, body []byte) error {
	var entry model.QuestionLog
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("decode question log failed: %w", err)
	}
	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	return w.repo.Create(persistCtx, &entry)
}

func (w *QuestionLogWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
