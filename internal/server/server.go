// Package server exposes the payslip pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/holerite-dev/holerite/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewRouter configures the gin engine with all routes and middleware.
func NewRouter(h *Handler, maxBodyBytes int64) *gin.Engine {
	r := gin.New()

	r.Use(Recovery())
	r.Use(RequestID())
	r.Use(Logger())

	r.GET("/healthz", h.Liveness)

	v1 := r.Group("/api/v1")
	v1.Use(BodyLimit(maxBodyBytes))
	v1.POST("/analyze", h.Analyze)
	v1.POST("/validate", h.Validate)
	v1.GET("/locales", h.Locales)

	return r
}

// Server wraps an http.Server running the API.
type Server struct {
	http *http.Server
}

// New builds a Server from the server section of the config.
func New(cfg config.ServerConfig, a Analyzer) *Server {
	return &Server{http: &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(NewHandler(a), cfg.MaxBodyBytes),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
