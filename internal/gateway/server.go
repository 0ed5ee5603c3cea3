package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coopco/treant/internal/config"
)

// Server owns the webhook HTTP listener.
type Server struct {
	server *http.Server
}

func NewServer(cfg config.GatewayConfig, h *Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/interactions", h)
	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler: mux,
		},
	}
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.server.Shutdown(context.Background()); err != nil {
			slog.Error("gateway: shutdown error", "error", err)
		}
	}()

	slog.Info("gateway: listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway: server error: %w", err)
	}
	return nil
}
