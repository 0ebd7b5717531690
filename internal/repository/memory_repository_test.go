package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/model"
)

func TestMemoryDocuments_CreateList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Documents()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a := &model.UploadedDocument{FileName: "a.pdf", VectorStoreID: "vs_a"}
	b := &model.UploadedDocument{FileName: "b.pdf", VectorStoreID: "vs_b"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	pairs := map[string]string{}
	for _, d := range list {
		pairs[d.VectorStoreID] = d.FileName
	}
	assert.Equal(t, map[string]string{"vs_a": "a.pdf", "vs_b": "b.pdf"}, pairs)
}

func TestMemoryDocuments_NilRecord(t *testing.T) {
	assert.ErrorIs(t, NewMemoryStore().Documents().Create(context.Background(), nil), ErrNilRecord)
}

func TestMemoryQuestionLogs_FilterOrderLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().QuestionLogs()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.QuestionLog{
			VectorStoreID: "vs_1",
			Question:      fmt.Sprintf("q%d", i),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &model.QuestionLog{VectorStoreID: "vs_2", Question: "other"}))

	got, err := repo.ListByVectorStoreID(ctx, "vs_1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q2", got[0].Question)
	assert.Equal(t, "q1", got[1].Question)

	got, err = repo.ListByVectorStoreID(ctx, "vs_1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, clampHistoryLimit(0))
	assert.Equal(t, defaultHistoryLimit, clampHistoryLimit(-4))
	assert.Equal(t, 7, clampHistoryLimit(7))
	assert.Equal(t, maxHistoryLimit, clampHistoryLimit(10_000))
}
