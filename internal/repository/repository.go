package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pdfqa/internal/model"
)

var ErrNilRecord = errors.New("record is nil")

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.UploadedDocument) error
	List(ctx context.Context) ([]model.UploadedDocument, error)
}

type QuestionLogRepository interface {
	Create(ctx context.Context, entry *model.QuestionLog) error
	ListByVectorStoreID(ctx context.Context, vectorStoreID string, limit int) ([]model.QuestionLog, error)
}

func stampDocument(doc *model.UploadedDocument) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
}

func stampQuestionLog(entry *model.QuestionLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
}
