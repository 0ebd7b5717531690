package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/ai"
	"pdfqa/internal/app"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/intake"
	"pdfqa/internal/repository"
)

// stubRetrieval answers every call locally and counts them.
type stubRetrieval struct {
	mu         sync.Mutex
	calls      int
	stores     int
	runStatus  ai.JobStatus
	answer     string
	failStores bool
}

func (s *stubRetrieval) hit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

func (s *stubRetrieval) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubRetrieval) CreateAssistant(context.Context, ai.AssistantSpec) (string, error) {
	s.hit()
	return "asst_1", nil
}

func (s *stubRetrieval) CreateVectorStore(context.Context, string) (string, error) {
	s.hit()
	if s.failStores {
		return "", fmt.Errorf("vector store quota exceeded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	return fmt.Sprintf("vs_%d", s.stores), nil
}

func (s *stubRetrieval) UploadFile(_ context.Context, file ai.FileUpload) (string, error) {
	s.hit()
	_, err := io.Copy(io.Discard, file.Reader)
	return "file_1", err
}

func (s *stubRetrieval) AttachFile(context.Context, string, string) error {
	s.hit()
	return nil
}

func (s *stubRetrieval) FileStatus(context.Context, string, string) (ai.JobStatus, error) {
	s.hit()
	return ai.StatusCompleted, nil
}

func (s *stubRetrieval) CreateThread(context.Context, string, string) (string, error) {
	s.hit()
	return "thread_1", nil
}

func (s *stubRetrieval) AddMessage(context.Context, string, string) error {
	s.hit()
	return nil
}

func (s *stubRetrieval) CreateRun(context.Context, string, string) (string, error) {
	s.hit()
	return "run_1", nil
}

func (s *stubRetrieval) RunStatus(context.Context, string, string) (ai.JobStatus, error) {
	s.hit()
	if s.runStatus == "" {
		return ai.StatusCompleted, nil
	}
	return s.runStatus, nil
}

func (s *stubRetrieval) ListMessages(context.Context, string) ([]ai.ThreadMessage, error) {
	s.hit()
	return []ai.ThreadMessage{
		{Role: "user", Texts: []string{"What is the capital of France?"}},
		{Role: ai.RoleAssistant, Texts: []string{s.answer}},
	}, nil
}

type testServer struct {
	router    *gin.Engine
	retrieval *stubRetrieval
	store     *repository.MemoryStore
}

func newTestServer(t *testing.T, retrieval *stubRetrieval) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	uploads, err := intake.NewStore(t.TempDir(), false)
	require.NoError(t, err)

	poller := app.Poller{Interval: time.Millisecond, MaxAttempts: 3}
	registry := app.NewAssistantRegistry(retrieval, ai.AssistantSpec{Name: "test", Model: "gpt-4o"})
	documents := app.NewDocumentService(retrieval, store.Documents(), poller, app.WithFileAttachment(true))
	questions := app.NewQuestionService(retrieval, registry, poller, app.NewRepositoryPublisher(store.QuestionLogs()), store.QuestionLogs())

	documentHandler := NewDocumentHandler(documents, uploads, "")
	questionHandler := NewQuestionHandler(questions)

	router := gin.New()
	router.POST("/upload-document", documentHandler.Upload)
	router.GET("/documents", documentHandler.List)
	router.GET("/documents/:vector_store_id/questions", questionHandler.History)
	router.POST("/ask-question", questionHandler.Ask)
	return &testServer{router: router, retrieval: retrieval, store: store}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, field, name string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file here"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-document", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func askRequest(t *testing.T, payload map[string]string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/ask-question", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func listDocuments(t *testing.T, s *testServer) []model.UploadedDocument {
	t.Helper()
	docs, err := s.store.Documents().List(context.Background())
	require.NoError(t, err)
	return docs
}

func TestUpload_MissingFile(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	rec := s.do(uploadRequest(t, "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No PDF file uploaded."}`, rec.Body.String())
	assert.Empty(t, listDocuments(t, s))
	assert.Zero(t, s.retrieval.Calls())
}

func TestUpload_WrongField(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	rec := s.do(uploadRequest(t, "file", "report.pdf"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, listDocuments(t, s))
}

func TestUpload_CreatesRecord(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	rec := s.do(uploadRequest(t, DefaultFormField, "report.pdf"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.DocumentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "report.pdf", got.FileName)
	assert.NotEmpty(t, got.VectorStoreID)

	docs := listDocuments(t, s)
	require.Len(t, docs, 1)
	assert.Equal(t, got.VectorStoreID, docs[0].VectorStoreID)
	assert.Equal(t, "report.pdf", docs[0].FileName)
}

func TestUpload_ExternalFailure(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{failStores: true})

	rec := s.do(uploadRequest(t, DefaultFormField, "report.pdf"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Empty(t, listDocuments(t, s))
}

func TestList_TwoUploads(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	require.Equal(t, http.StatusCreated, s.do(uploadRequest(t, DefaultFormField, "a.pdf")).Code)
	require.Equal(t, http.StatusCreated, s.do(uploadRequest(t, DefaultFormField, "b.pdf")).Code)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.DocumentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.ElementsMatch(t, []model.DocumentSummary{
		{FileName: "a.pdf", VectorStoreID: "vs_1"},
		{FileName: "b.pdf", VectorStoreID: "vs_2"},
	}, got)
}

func TestList_Empty(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAsk_MissingVectorStoreID(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	rec := s.do(askRequest(t, map[string]string{"question": "What is this?"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Both 'question' and 'vector_store_id' are required."}`, rec.Body.String())
	assert.Zero(t, s.retrieval.Calls())
}

func TestAsk_MalformedBody(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{})

	req := httptest.NewRequest(http.MethodPost, "/ask-question", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.retrieval.Calls())
}

func TestAsk_ReturnsAssistantAnswer(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{answer: "Paris is the capital of France."})

	rec := s.do(askRequest(t, map[string]string{
		"question":        "What is the capital of France?",
		"vector_store_id": "vs_1",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got app.AskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Paris is the capital of France.", got.Answer)
	assert.Equal(t, "What is the capital of France?"+app.AnswerStyleSuffix, got.Question)

	history := s.do(httptest.NewRequest(http.MethodGet, "/documents/vs_1/questions", nil))
	require.Equal(t, http.StatusOK, history.Code)
	var logs []model.QuestionLog
	require.NoError(t, json.Unmarshal(history.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "Paris is the capital of France.", logs[0].Answer)
}

func TestAsk_RunNeverCompletes(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{runStatus: ai.StatusInProgress})

	rec := s.do(askRequest(t, map[string]string{
		"question":        "What is the capital of France?",
		"vector_store_id": "vs_1",
	}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestAsk_RunFailed(t *testing.T) {
	s := newTestServer(t, &stubRetrieval{runStatus: ai.StatusFailed})

	rec := s.do(askRequest(t, map[string]string{
		"question":        "What is the capital of France?",
		"vector_store_id": "vs_1",
	}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
