package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"pdfqa/internal/ai"
	"pdfqa/internal/metrics"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/repository"
)

type DocumentCache interface {
	GetDocuments(ctx context.Context) ([]model.DocumentSummary, bool, error)
	SetDocuments(ctx context.Context, docs []model.DocumentSummary) error
	Invalidate(ctx context.Context) error
}

type DocumentArchive interface {
	Store(ctx context.Context, key, path, contentType string) error
}

type PageCounter func(path string) (int, error)

type DocumentService struct {
	retrieval   ai.Retrieval
	repo        repository.DocumentRepository
	poller      Poller
	attachFiles bool

	cache       DocumentCache
	archive     DocumentArchive
	pageCounter PageCounter
}

type DocumentServiceOption func(*DocumentService)

func WithDocumentCache(c DocumentCache) DocumentServiceOption {
	return func(s *DocumentService) { s.cache = c }
}

func WithDocumentArchive(a DocumentArchive) DocumentServiceOption {
	return func(s *DocumentService) { s.archive = a }
}

func WithPageCounter(fn PageCounter) DocumentServiceOption {
	return func(s *DocumentService) { s.pageCounter = fn }
}

// WithFileAttachment uploads the PDF and attaches it to the new vector store,
// waiting until the hosted service has indexed it.
func WithFileAttachment(enabled bool) DocumentServiceOption {
	return func(s *DocumentService) { s.attachFiles = enabled }
}

func NewDocumentService(
	retrieval ai.Retrieval,
	repo repository.DocumentRepository,
	poller Poller,
	opts ...DocumentServiceOption,
) *DocumentService {
	s := &DocumentService{
		retrieval: retrieval,
		repo:      repo,
		poller:    poller,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadInput describes a PDF already written to local disk.
type UploadInput struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// Upload registers the file with a new vector store named after it and
// persists the pointer. A vector store created before a failed write is left
// on the hosted service.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.UploadedDocument, error) {
	doc, err := s.upload(ctx, input)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Uploads.WithLabelValues("success").Inc()
	return doc, nil
}

func (s *DocumentService) upload(ctx context.Context, input UploadInput) (*model.UploadedDocument, error) {
	if strings.TrimSpace(input.Path) == "" || input.FileName == "" {
		return nil, ErrInvalidInput
	}

	vectorStoreID, err := s.retrieval.CreateVectorStore(ctx, input.FileName)
	if err != nil {
		return nil, err
	}
	logger.L.Infow("vector store created", "vector_store_id", vectorStoreID, "file_name", input.FileName, "size", input.Size)

	doc := &model.UploadedDocument{
		FileName:      input.FileName,
		VectorStoreID: vectorStoreID,
	}

	if s.attachFiles {
		fileID, err := s.attach(ctx, vectorStoreID, input)
		if err != nil {
			return nil, err
		}
		doc.FileID = fileID
	}

	if s.pageCounter != nil {
		if pages, err := s.pageCounter(input.Path); err != nil {
			logger.L.Debugw("page count unavailable", "file_name", input.FileName, "error", err)
		} else {
			doc.PageCount = pages
		}
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document for vector store %s: %w", vectorStoreID, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.L.Warnw("invalidate documents cache failed", "error", err)
		}
	}
	if s.archive != nil {
		key := vectorStoreID + "/" + input.FileName
		if err := s.archive.Store(ctx, key, input.Path, input.ContentType); err != nil {
			logger.L.Warnw("archive upload failed", "key", key, "error", err)
		}
	}
	return doc, nil
}

func (s *DocumentService) attach(ctx context.Context, vectorStoreID string, input UploadInput) (string, error) {
	f, err := os.Open(input.Path)
	if err != nil {
		return "", fmt.Errorf("open upload failed: %w", err)
	}
	defer f.Close()

	fileID, err := s.retrieval.UploadFile(ctx, ai.FileUpload{
		Name:        input.FileName,
		ContentType: input.ContentType,
		Reader:      f,
	})
	if err != nil {
		return "", err
	}
	if err := s.retrieval.AttachFile(ctx, vectorStoreID, fileID); err != nil {
		return "", err
	}
	_, err = s.poller.Wait(ctx, func(ctx context.Context) (ai.JobStatus, error) {
		return s.retrieval.FileStatus(ctx, vectorStoreID, fileID)
	})
	if err != nil {
		return "", fmt.Errorf("index file %s: %w", fileID, err)
	}
	return fileID, nil
}

// List returns every stored document projected to file name and vector store.
func (s *DocumentService) List(ctx context.Context) ([]model.DocumentSummary, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.GetDocuments(ctx); err == nil && hit {
			return cached, nil
		} else if err != nil {
			logger.L.Warnw("read documents cache failed", "error", err)
		}
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, d.Summary())
	}

	if s.cache != nil {
		if err := s.cache.SetDocuments(ctx, summaries); err != nil {
			logger.L.Warnw("write documents cache failed", "error", err)
		}
	}
	return summaries, nil
}
