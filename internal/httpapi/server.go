package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/launchbox/webapi/internal/config"
)

// Server wraps http.Server with the service's timeouts and shutdown handling.
type Server struct {
	srv *http.Server
}

// NewServer builds the HTTP server for the given handler chain.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
