package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"pdfqa/internal/model"
)

const documentsKey = "pdfqa:documents"

// DocumentCache keeps the listing projection in redis. Uploads invalidate it.
type DocumentCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewDocumentCache(client *redisv9.Client, ttl time.Duration) *DocumentCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DocumentCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *DocumentCache) GetDocuments(ctx context.Context) ([]model.DocumentSummary, bool, error) {
	raw, err := c.client.Get(ctx, documentsKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get documents failed: %w", err)
	}

	var docs []model.DocumentSummary
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached documents failed: %w", err)
	}
	return docs, true, nil
}

func (c *DocumentCache) SetDocuments(ctx context.Context, docs []model.DocumentSummary) error {
	payload, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal documents cache failed: %w", err)
	}
	if err := c.client.Set(ctx, documentsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set documents failed: %w", err)
	}
	return nil
}

func (c *DocumentCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, documentsKey).Err(); err != nil {
		return fmt.Errorf("redis delete documents failed: %w", err)
	}
	return nil
}

func (c *DocumentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
