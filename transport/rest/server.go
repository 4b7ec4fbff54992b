package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Start runs the HTTP presentation layer. Matches run synchronously, so the
// write timeout must cover a full game of agent calls.
func Start(logger *slog.Logger, port string, arenaService arenaService) error {
	h := newHandlers(logger, arenaService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", h.pingHandler)
	mux.HandleFunc("GET /models", h.modelsHandler)
	mux.HandleFunc("GET /games", h.gamesHandler)
	mux.HandleFunc("GET /standings", h.standingsHandler)
	mux.HandleFunc("POST /matches", h.matchHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
