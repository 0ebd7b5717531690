package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfqa/internal/bootstrap"
	"pdfqa/internal/pkg/logger"
	httptransport "pdfqa/internal/transport/http"
)

func main() {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		logger.L.Errorw("bootstrap failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.L.Warnw("close resources failed", "error", err)
		}
	}()

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              app.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.L.Infow("server starting",
			"addr", server.Addr,
			"env", app.Config.App.Env,
			"log_level", logger.LevelString(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			logger.L.Errorw("server failed", "error", err)
		}
	}
	shutdown(server)
}

func shutdown(server *http.Server) {
	// Questions can sit in the poll loop for a while; give them time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Warnw("server shutdown failed", "error", err)
	}
	logger.L.Infow("server stopped")
}
