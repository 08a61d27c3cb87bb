// Package adminserver exposes the process's health and metrics endpoints
// over plain HTTP, separate from the data plane.
package adminserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthFunc reports whether the pipeline is currently healthy enough to
// serve traffic. A nil error means healthy.
type HealthFunc func() error

// Config configures the admin server.
type Config struct {
	BindAddress   string
	Port          int
	Health        HealthFunc
	MetricsHandler http.Handler // nil disables /metrics
	Log           zerolog.Logger
}

// Server is a minimal HTTP server for operational endpoints.
type Server struct {
	cfg    Config
	server *http.Server
}

// New builds a Server. It does not start listening until Start is called.
func New(cfg Config) *Server {
	if cfg.Health == nil {
		cfg.Health = func() error { return nil }
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := cfg.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux := http.NewServeMux()
	mux.Handle("/", r)
	if cfg.MetricsHandler != nil {
		mux.Handle("/metrics", cfg.MetricsHandler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start runs the server in a background goroutine. Bind errors other than
// a clean shutdown are logged since ListenAndServe blocks the caller's
// goroutine and there's nowhere synchronous to return them to.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.cfg.Log.Error().Err(err).Str("addr", s.server.Addr).Msg("admin server exited")
		}
	}()
}

// Stop gracefully shuts the server down within ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
