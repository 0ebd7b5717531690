package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
	"pdfqa/internal/pkg/intake"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/transport/http/response"
)

const DefaultFormField = "pdf_file"

type DocumentHandler struct {
	documents *app.DocumentService
	intake    *intake.Store
	formField string
}

func NewDocumentHandler(documents *app.DocumentService, store *intake.Store, formField string) *DocumentHandler {
	if formField == "" {
		formField = DefaultFormField
	}
	return &DocumentHandler{documents: documents, intake: store, formField: formField}
}

// Upload registers one multipart PDF with a new vector store.
func (h *DocumentHandler) Upload(c *gin.Context) {
	// A missing or unreadable part leaves header nil, which Save reports as ErrNoFile.
	header, _ := c.FormFile(h.formField)
	upload, err := h.intake.Save(header)
	if err != nil {
		if errors.Is(err, intake.ErrNoFile) {
			response.Error(c, http.StatusBadRequest, response.MsgNoFile)
			return
		}
		logger.L.Errorw("store upload failed", "file_name", header.Filename, "error", err)
		response.Internal(c)
		return
	}
	defer func() {
		if err := h.intake.Remove(upload); err != nil {
			logger.L.Warnw("remove temp upload failed", "path", upload.Path, "error", err)
		}
	}()

	doc, err := h.documents.Upload(c.Request.Context(), app.UploadInput{
		Path:        upload.Path,
		FileName:    upload.OriginalName,
		Size:        upload.Size,
		ContentType: upload.ContentType,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.MsgNoFile)
			return
		}
		logger.L.Errorw("error during document upload", "file_name", upload.OriginalName, "error", err)
		response.Internal(c)
		return
	}

	response.Created(c, doc.Summary())
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		logger.L.Errorw("error fetching documents", "error", err)
		response.Internal(c)
		return
	}
	response.OK(c, docs)
}
