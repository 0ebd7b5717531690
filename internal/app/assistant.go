package app

import (
	"context"
	"sync"

	"pdfqa/internal/ai"
	"pdfqa/internal/metrics"
	"pdfqa/internal/pkg/logger"
)

// AssistantRegistry owns the single hosted assistant of this process.
// Ensure creates it at most once; a failed create is not remembered.
type AssistantRegistry struct {
	retrieval ai.Retrieval
	spec      ai.AssistantSpec

	mu sync.Mutex
	id string
}

func NewAssistantRegistry(retrieval ai.Retrieval, spec ai.AssistantSpec) *AssistantRegistry {
	return &AssistantRegistry{retrieval: retrieval, spec: spec}
}

func (r *AssistantRegistry) Ensure(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != "" {
		return r.id, nil
	}

	logger.L.Infow("initializing assistant", "name", r.spec.Name, "model", r.spec.Model)
	id, err := r.retrieval.CreateAssistant(ctx, r.spec)
	if err != nil {
		return "", err
	}
	metrics.AssistantsCreated.Inc()
	r.id = id
	logger.L.Infow("assistant ready", "assistant_id", id)
	return id, nil
}

// ID returns the assistant id, or "" before the first successful Ensure.
func (r *AssistantRegistry) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}
