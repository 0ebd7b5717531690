package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfqa/internal/bootstrap"
	"pdfqa/internal/metrics"
	"pdfqa/internal/transport/http/handler"
	"pdfqa/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = int64(app.Config.Upload.MaxMemoryMB) << 20
	router.Use(
		middleware.RequestLog(),
		gin.Recovery(),
		middleware.RateLimit(app.Config.RateLimit.RPS, app.Config.RateLimit.Burst),
	)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.StartedAt, app.Checks)
	documentHandler := handler.NewDocumentHandler(app.Documents, app.Intake, app.Config.Upload.FormField)
	questionHandler := handler.NewQuestionHandler(app.Questions)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/upload-document", documentHandler.Upload)
	router.GET("/documents", documentHandler.List)
	router.GET("/documents/:vector_store_id/questions", questionHandler.History)
	router.POST("/ask-question", questionHandler.Ask)

	return router
}
