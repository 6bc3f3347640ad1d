package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewRouter registers the ping and game routes.
func NewRouter(logger *slog.Logger, games gameUseCase) http.Handler {
	handler := NewGameHandler(logger, games)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", NewPingHandler().PingHandler)

	mux.HandleFunc("POST /games", handler.NewGame)
	mux.HandleFunc("GET /games/{id}", handler.GetGame)
	mux.HandleFunc("DELETE /games/{id}", handler.DeleteGame)
	mux.HandleFunc("POST /games/{id}/turn", handler.MakeTurn)
	mux.HandleFunc("POST /games/{id}/engine", handler.EngineFirst)
	mux.HandleFunc("POST /games/{id}/reset", handler.Reset)
	mux.HandleFunc("GET /games/{id}/analysis", handler.Analyze)

	return mux
}

// Start serves the REST API until ctx is cancelled.
func Start(ctx context.Context, logger *slog.Logger, port string, games gameUseCase) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, games),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
