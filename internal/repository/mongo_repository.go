package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pdfqa/internal/model"
)

const (
	DocumentsCollection    = "uploadeddocuments"
	QuestionLogsCollection = "questionlogs"
)

// MongoDocumentRepository stores UploadedDocument records in one collection.
type MongoDocumentRepository struct {
	col *mongo.Collection
}

func NewMongoDocumentRepository(db *mongo.Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{col: db.Collection(DocumentsCollection)}
}

func (r *MongoDocumentRepository) Create(ctx context.Context, doc *model.UploadedDocument) error {
	if doc == nil {
		return ErrNilRecord
	}
	stampDocument(doc)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert uploaded document failed: %w", err)
	}
	return nil
}

func (r *MongoDocumentRepository) List(ctx context.Context) ([]model.UploadedDocument, error) {
	projection := bson.D{{Key: "_id", Value: 0}, {Key: "file_name", Value: 1}, {Key: "vector_store_id", Value: 1}}
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("find uploaded documents failed: %w", err)
	}
	defer cur.Close(ctx)

	out := []model.UploadedDocument{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode uploaded documents failed: %w", err)
	}
	return out, nil
}

func (r *MongoDocumentRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

type MongoQuestionLogRepository struct {
	col *mongo.Collection
}

// NewMongoQuestionLogRepository also ensures the (vector_store_id, created_at) index.
func NewMongoQuestionLogRepository(ctx context.Context, db *mongo.Database) (*MongoQuestionLogRepository, error) {
	col := db.Collection(QuestionLogsCollection)
	idx := mongo.IndexModel{Keys: bson.D{{Key: "vector_store_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create question log index failed: %w", err)
	}
	return &MongoQuestionLogRepository{col: col}, nil
}

func (r *MongoQuestionLogRepository) Create(ctx context.Context, entry *model.QuestionLog) error {
	if entry == nil {
		return ErrNilRecord
	}
	stampQuestionLog(entry)
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert question log failed: %w", err)
	}
	return nil
}

func (r *MongoQuestionLogRepository) ListByVectorStoreID(ctx context.Context, vectorStoreID string, limit int) ([]model.QuestionLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(clampHistoryLimit(limit)))
	cur, err := r.col.Find(ctx, bson.M{"vector_store_id": vectorStoreID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find question logs failed: %w", err)
	}
	defer cur.Close(ctx)

	out := []model.QuestionLog{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode question logs failed: %w", err)
	}
	return out, nil
}
