package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgNoFile           = "No PDF file uploaded."
	MsgQuestionRequired = "Both 'question' and 'vector_store_id' are required."
	MsgInternal         = "Internal server error"
	MsgRateLimited      = "Rate limit exceeded"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// Internal logs nothing itself; callers log the cause before replying.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternal)
}
