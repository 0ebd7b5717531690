package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"pdfqa/internal/ai"
)

var errStub = errors.New("stub failure")

// fakeRetrieval is an in-memory stand-in for the hosted assistant API.
type fakeRetrieval struct {
	mu    sync.Mutex
	calls []string

	assistantsCreated atomic.Int32
	vectorStores      atomic.Int32

	createAssistantErr error
	createStoreErr     error

	// runStatuses is consumed one per RunStatus call; the last entry repeats.
	runStatuses  []ai.JobStatus
	runPolls     int
	fileStatuses []ai.JobStatus
	filePolls    int
	messages     []ai.ThreadMessage

	uploadedBody string
	threadStore  string
	threadSeed   string
	addedMessage string
	runAssistant string
}

func (f *fakeRetrieval) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRetrieval) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRetrieval) CreateAssistant(_ context.Context, _ ai.AssistantSpec) (string, error) {
	f.record("CreateAssistant")
	if f.createAssistantErr != nil {
		return "", f.createAssistantErr
	}
	n := f.assistantsCreated.Add(1)
	return fmt.Sprintf("asst_%d", n), nil
}

func (f *fakeRetrieval) CreateVectorStore(_ context.Context, name string) (string, error) {
	f.record("CreateVectorStore")
	if f.createStoreErr != nil {
		return "", f.createStoreErr
	}
	n := f.vectorStores.Add(1)
	return fmt.Sprintf("vs_%d", n), nil
}

func (f *fakeRetrieval) UploadFile(_ context.Context, file ai.FileUpload) (string, error) {
	f.record("UploadFile")
	body, err := io.ReadAll(file.Reader)
	if err != nil {
		return "", err
	}
	f.uploadedBody = string(body)
	return "file_1", nil
}

func (f *fakeRetrieval) AttachFile(_ context.Context, _, _ string) error {
	f.record("AttachFile")
	return nil
}

func (f *fakeRetrieval) FileStatus(_ context.Context, _, _ string) (ai.JobStatus, error) {
	f.record("FileStatus")
	return next(f.fileStatuses, &f.filePolls), nil
}

func (f *fakeRetrieval) CreateThread(_ context.Context, vectorStoreID, question string) (string, error) {
	f.record("CreateThread")
	f.threadStore = vectorStoreID
	f.threadSeed = question
	return "thread_1", nil
}

func (f *fakeRetrieval) AddMessage(_ context.Context, _, question string) error {
	f.record("AddMessage")
	f.addedMessage = question
	return nil
}

func (f *fakeRetrieval) CreateRun(_ context.Context, _, assistantID string) (string, error) {
	f.record("CreateRun")
	f.runAssistant = assistantID
	return "run_1", nil
}

func (f *fakeRetrieval) RunStatus(_ context.Context, _, _ string) (ai.JobStatus, error) {
	f.record("RunStatus")
	return next(f.runStatuses, &f.runPolls), nil
}

func (f *fakeRetrieval) ListMessages(_ context.Context, _ string) ([]ai.ThreadMessage, error) {
	f.record("ListMessages")
	return f.messages, nil
}

func next(statuses []ai.JobStatus, polls *int) ai.JobStatus {
	if len(statuses) == 0 {
		return ai.StatusCompleted
	}
	i := *polls
	if i >= len(statuses) {
		i = len(statuses) - 1
	}
	*polls++
	return statuses[i]
}
