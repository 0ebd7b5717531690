package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
}

// OpenAIRetrieval implements Retrieval with the OpenAI Assistants v2 API.
// SDK retries are disabled; every call is attempted once.
type OpenAIRetrieval struct {
	client openai.Client
}

func NewOpenAIRetrieval(cfg OpenAIConfig, extra ...option.RequestOption) *OpenAIRetrieval {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	opts = append(opts, extra...)
	return &OpenAIRetrieval{client: openai.NewClient(opts...)}
}

func (r *OpenAIRetrieval) CreateAssistant(ctx context.Context, spec AssistantSpec) (string, error) {
	assistant, err := r.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(spec.Model),
		Name:         openai.String(spec.Name),
		Instructions: openai.String(spec.Instructions),
		Tools: []openai.AssistantToolUnionParam{
			{OfFileSearch: &openai.FileSearchToolParam{}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create assistant failed: %w", err)
	}
	return assistant.ID, nil
}

func (r *OpenAIRetrieval) CreateVectorStore(ctx context.Context, name string) (string, error) {
	store, err := r.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("create vector store failed: %w", err)
	}
	return store.ID, nil
}

func (r *OpenAIRetrieval) UploadFile(ctx context.Context, file FileUpload) (string, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	obj, err := r.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(file.Reader, file.Name, contentType),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload file failed: %w", err)
	}
	return obj.ID, nil
}

func (r *OpenAIRetrieval) AttachFile(ctx context.Context, vectorStoreID, fileID string) error {
	_, err := r.client.VectorStores.Files.New(ctx, vectorStoreID, openai.VectorStoreFileNewParams{
		FileID: fileID,
	})
	if err != nil {
		return fmt.Errorf("attach file to vector store failed: %w", err)
	}
	return nil
}

func (r *OpenAIRetrieval) FileStatus(ctx context.Context, vectorStoreID, fileID string) (JobStatus, error) {
	file, err := r.client.VectorStores.Files.Get(ctx, vectorStoreID, fileID)
	if err != nil {
		return "", fmt.Errorf("get vector store file failed: %w", err)
	}
	return JobStatus(file.Status), nil
}

func (r *OpenAIRetrieval) CreateThread(ctx context.Context, vectorStoreID, question string) (string, error) {
	thread, err := r.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{
		Messages: []openai.BetaThreadNewParamsMessage{{
			Role:    "user",
			Content: openai.BetaThreadNewParamsMessageContentUnion{OfString: openai.String(question)},
		}},
		ToolResources: openai.BetaThreadNewParamsToolResources{
			FileSearch: openai.BetaThreadNewParamsToolResourcesFileSearch{
				VectorStoreIDs: []string{vectorStoreID},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create thread failed: %w", err)
	}
	return thread.ID, nil
}

func (r *OpenAIRetrieval) AddMessage(ctx context.Context, threadID, question string) error {
	_, err := r.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role:    "user",
		Content: openai.BetaThreadMessageNewParamsContentUnion{OfString: openai.String(question)},
	})
	if err != nil {
		return fmt.Errorf("add thread message failed: %w", err)
	}
	return nil
}

func (r *OpenAIRetrieval) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	run, err := r.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("create run failed: %w", err)
	}
	return run.ID, nil
}

func (r *OpenAIRetrieval) RunStatus(ctx context.Context, threadID, runID string) (JobStatus, error) {
	run, err := r.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return "", fmt.Errorf("get run failed: %w", err)
	}
	return JobStatus(run.Status), nil
}

func (r *OpenAIRetrieval) ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	page, err := r.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{})
	if err != nil {
		return nil, fmt.Errorf("list thread messages failed: %w", err)
	}

	out := make([]ThreadMessage, 0, len(page.Data))
	for _, msg := range page.Data {
		tm := ThreadMessage{Role: string(msg.Role)}
		for _, part := range msg.Content {
			if part.Type != "text" {
				continue
			}
			tm.Texts = append(tm.Texts, part.Text.Value)
		}
		out = append(out, tm)
	}
	return out, nil
}

// JoinAssistantText concatenates the text of assistant-authored messages in
// list order. Parts of one message and the messages themselves are joined
// with newlines.
func JoinAssistantText(messages []ThreadMessage) string {
	replies := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != RoleAssistant {
			continue
		}
		replies = append(replies, strings.Join(msg.Texts, "\n"))
	}
	return strings.Join(replies, "\n")
}
