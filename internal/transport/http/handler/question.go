package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/transport/http/response"
)

type QuestionHandler struct {
	questions *app.QuestionService
}

type AskQuestionRequest struct {
	Question      string `json:"question"`
	VectorStoreID string `json:"vector_store_id"`
}

func NewQuestionHandler(questions *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) Ask(c *gin.Context) {
	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgQuestionRequired)
		return
	}

	result, err := h.questions.Ask(c.Request.Context(), app.AskInput{
		Question:      req.Question,
		VectorStoreID: req.VectorStoreID,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.MsgQuestionRequired)
			return
		}
		logger.L.Errorw("error asking question", "vector_store_id", req.VectorStoreID, "error", err)
		response.Internal(c)
		return
	}

	response.OK(c, result)
}

func (h *QuestionHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.questions.History(c.Request.Context(), c.Param("vector_store_id"), limit)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "vector_store_id is required")
			return
		}
		logger.L.Errorw("error fetching question history", "error", err)
		response.Internal(c)
		return
	}
	response.OK(c, entries)
}
