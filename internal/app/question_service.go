package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdfqa/internal/ai"
	"pdfqa/internal/metrics"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/repository"
)

// AnswerStyleSuffix is appended to every question before it is sent.
const AnswerStyleSuffix = ". Please do not send any relevant links, and also unwanted characters in the answer."

type QuestionLogPublisher interface {
	Publish(ctx context.Context, entry model.QuestionLog) error
}

// RepositoryPublisher writes question logs straight to the store. It is used
// when no message broker is configured.
type RepositoryPublisher struct {
	repo repository.QuestionLogRepository
}

func NewRepositoryPublisher(repo repository.QuestionLogRepository) *RepositoryPublisher {
	return &RepositoryPublisher{repo: repo}
}

func (p *RepositoryPublisher) Publish(ctx context.Context, entry model.QuestionLog) error {
	return p.repo.Create(ctx, &entry)
}

type QuestionService struct {
	retrieval  ai.Retrieval
	assistants *AssistantRegistry
	poller     Poller
	publisher  QuestionLogPublisher
	history    repository.QuestionLogRepository
}

func NewQuestionService(
	retrieval ai.Retrieval,
	assistants *AssistantRegistry,
	poller Poller,
	publisher QuestionLogPublisher,
	history repository.QuestionLogRepository,
) *QuestionService {
	return &QuestionService{
		retrieval:  retrieval,
		assistants: assistants,
		poller:     poller,
		publisher:  publisher,
		history:    history,
	}
}

type AskInput struct {
	Question      string
	VectorStoreID string
}

type AskResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ask runs the assistant over a new thread scoped to the vector store and
// returns the text of the assistant replies.
func (s *QuestionService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.Question == "" || input.VectorStoreID == "" {
		return nil, ErrInvalidInput
	}
	result, err := s.ask(ctx, input.Question+AnswerStyleSuffix, input.VectorStoreID)
	if err != nil {
		metrics.Questions.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Questions.WithLabelValues("success").Inc()
	return result, nil
}

func (s *QuestionService) ask(ctx context.Context, question, vectorStoreID string) (*AskResult, error) {
	assistantID, err := s.assistants.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	threadID, err := s.retrieval.CreateThread(ctx, vectorStoreID, question)
	if err != nil {
		return nil, err
	}
	if err := s.retrieval.AddMessage(ctx, threadID, question); err != nil {
		return nil, err
	}
	runID, err := s.retrieval.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return nil, err
	}
	logger.L.Debugw("run started", "thread_id", threadID, "run_id", runID, "vector_store_id", vectorStoreID)

	_, err = s.poller.Wait(ctx, func(ctx context.Context) (ai.JobStatus, error) {
		return s.retrieval.RunStatus(ctx, threadID, runID)
	})
	if err != nil {
		return nil, fmt.Errorf("run %s on thread %s: %w", runID, threadID, err)
	}

	messages, err := s.retrieval.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	answer := ai.JoinAssistantText(messages)

	if s.publisher != nil {
		entry := model.QuestionLog{
			VectorStoreID: vectorStoreID,
			ThreadID:      threadID,
			RunID:         runID,
			Question:      strings.TrimSuffix(question, AnswerStyleSuffix),
			Answer:        answer,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, entry); err != nil {
			logger.L.Warnw("publish question log failed", "thread_id", threadID, "error", err)
		}
	}

	return &AskResult{Question: question, Answer: answer}, nil
}

// History lists logged questions for a vector store, newest first.
func (s *QuestionService) History(ctx context.Context, vectorStoreID string, limit int) ([]model.QuestionLog, error) {
	if vectorStoreID == "" {
		return nil, ErrInvalidInput
	}
	if s.history == nil {
		return []model.QuestionLog{}, nil
	}
	return s.history.ListByVectorStoreID(ctx, vectorStoreID, limit)
}
