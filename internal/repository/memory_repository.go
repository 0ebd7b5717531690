package repository

import (
	"context"
	"sort"
	"sync"

	"pdfqa/internal/model"
)

// MemoryStore keeps records in process memory. It backs the memory:// database
// URI and the handler tests.
type MemoryStore struct {
	mu        sync.RWMutex
	documents []model.UploadedDocument
	questions []model.QuestionLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Documents() DocumentRepository {
	return memoryDocuments{m}
}

func (m *MemoryStore) QuestionLogs() QuestionLogRepository {
	return memoryQuestionLogs{m}
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

type memoryDocuments struct {
	s *MemoryStore
}

func (r memoryDocuments) Create(_ context.Context, doc *model.UploadedDocument) error {
	if doc == nil {
		return ErrNilRecord
	}
	stampDocument(doc)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.documents = append(r.s.documents, *doc)
	return nil
}

func (r memoryDocuments) List(context.Context) ([]model.UploadedDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.UploadedDocument, len(r.s.documents))
	copy(out, r.s.documents)
	return out, nil
}

type memoryQuestionLogs struct {
	s *MemoryStore
}

func (r memoryQuestionLogs) Create(_ context.Context, entry *model.QuestionLog) error {
	if entry == nil {
		return ErrNilRecord
	}
	stampQuestionLog(entry)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.questions = append(r.s.questions, *entry)
	return nil
}

func (r memoryQuestionLogs) ListByVectorStoreID(_ context.Context, vectorStoreID string, limit int) ([]model.QuestionLog, error) {
	limit = clampHistoryLimit(limit)

	r.s.mu.RLock()
	out := make([]model.QuestionLog, 0)
	for _, q := range r.s.questions {
		if q.VectorStoreID == vectorStoreID {
			out = append(out, q)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
