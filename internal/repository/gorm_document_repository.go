package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pdfqa/internal/model"
)

type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Create(ctx context.Context, doc *model.UploadedDocument) error {
	if doc == nil {
		return ErrNilRecord
	}
	stampDocument(doc)
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create uploaded document failed: %w", err)
	}
	return nil
}

func (r *GormDocumentRepository) List(ctx context.Context) ([]model.UploadedDocument, error) {
	var list []model.UploadedDocument
	if err := r.db.WithContext(ctx).Select("id", "file_name", "vector_store_id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list uploaded documents failed: %w", err)
	}
	return list, nil
}

func (r *GormDocumentRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db failed: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
