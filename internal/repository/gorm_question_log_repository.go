package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pdfqa/internal/model"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type GormQuestionLogRepository struct {
	db *gorm.DB
}

func NewGormQuestionLogRepository(db *gorm.DB) *GormQuestionLogRepository {
	return &GormQuestionLogRepository{db: db}
}

func (r *GormQuestionLogRepository) Create(ctx context.Context, entry *model.QuestionLog) error {
	if entry == nil {
		return ErrNilRecord
	}
	stampQuestionLog(entry)
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create question log failed: %w", err)
	}
	return nil
}

func (r *GormQuestionLogRepository) ListByVectorStoreID(ctx context.Context, vectorStoreID string, limit int) ([]model.QuestionLog, error) {
	limit = clampHistoryLimit(limit)

	var entries []model.QuestionLog
	if err := r.db.WithContext(ctx).
		Where("vector_store_id = ?", vectorStoreID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list question logs failed: %w", err)
	}
	return entries, nil
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
