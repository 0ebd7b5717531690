// Package ai wraps the hosted assistant API that stores documents and answers
// questions about them. Nothing in this package indexes or searches content
// locally.
package ai

import (
	"context"
	"io"
)

// JobStatus is the status string of an asynchronous job owned by the hosted
// service: a run or a vector store file ingestion.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusInProgress     JobStatus = "in_progress"
	StatusRequiresAction JobStatus = "requires_action"
	StatusCancelling     JobStatus = "cancelling"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
	StatusCancelled      JobStatus = "cancelled"
	StatusExpired        JobStatus = "expired"
	StatusIncomplete     JobStatus = "incomplete"
)

// Failed reports whether the job has stopped without completing. A run that
// requires action counts as failed because no tool outputs are ever submitted.
func (s JobStatus) Failed() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusExpired, StatusIncomplete, StatusRequiresAction:
		return true
	}
	return false
}

const RoleAssistant = "assistant"

type AssistantSpec struct {
	Name         string
	Instructions string
	Model        string
}

type FileUpload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ThreadMessage holds the text parts of one thread message, in order.
type ThreadMessage struct {
	Role  string
	Texts []string
}

// Retrieval is the subset of the hosted assistant API the service calls.
// Every identifier is opaque.
type Retrieval interface {
	CreateAssistant(ctx context.Context, spec AssistantSpec) (string, error)
	CreateVectorStore(ctx context.Context, name string) (string, error)
	UploadFile(ctx context.Context, file FileUpload) (string, error)
	AttachFile(ctx context.Context, vectorStoreID, fileID string) error
	FileStatus(ctx context.Context, vectorStoreID, fileID string) (JobStatus, error)
	CreateThread(ctx context.Context, vectorStoreID, question string) (string, error)
	AddMessage(ctx context.Context, threadID, question string) error
	CreateRun(ctx context.Context, threadID, assistantID string) (string, error)
	RunStatus(ctx context.Context, threadID, runID string) (JobStatus, error)
	ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error)
}
