// Package server assembles the HTTP surface of the shelf service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/fmoraes/pdfshelf/internal/errors"
	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/internal/server/handlers"
	"github.com/fmoraes/pdfshelf/internal/server/middleware"
)

// Server is the HTTP server for the shelf service.
type Server struct {
	host   string
	port   int
	router chi.Router
	shelf  *handlers.Shelf

	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration

	logger *zap.Logger
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithShelf attaches the document-shelf API and pages.
func WithShelf(shelf *handlers.Shelf) Option {
	return func(s *Server) {
		s.shelf = shelf
	}
}

// WithTimeouts sets the HTTP server timeouts.
func WithTimeouts(read, write, idle, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.idleTimeout = idle
		s.shutdownTimeout = shutdown
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New constructs a Server listening on host:port with the health and version
// endpoints registered. The shelf API is attached via WithShelf.
func New(host string, port int, opts ...Option) *Server {
	s := &Server{
		host:            host,
		port:            port,
		router:          chi.NewRouter(),
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		idleTimeout:     120 * time.Second,
		shutdownTimeout: 10 * time.Second,
		logger:          observability.ServerLogger,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Middleware must be attached before any route.
	s.router.Use(middleware.Recovery)
	if s.logger != nil {
		s.router.Use(middleware.RequestLogger(s.logger))
	}

	s.router.NotFound(notFoundHandler)
	s.router.MethodNotAllowed(methodNotAllowedHandler)

	s.router.Get("/health", handlers.Health)
	s.router.Get("/health/live", handlers.Live)
	s.router.Get("/health/ready", handlers.Ready)
	s.router.Get("/health/startup", handlers.Startup)
	s.router.Get("/version", handlers.Version)

	if s.shelf != nil {
		s.router.Get("/", handlers.BrowsePage)
		s.router.Get("/upload", handlers.UploadPage)
		s.router.Route("/api", func(r chi.Router) {
			r.Get("/files", s.shelf.List)
			r.Post("/files", s.shelf.Upload)
			r.Get("/files/{name}/link", s.shelf.Link)
			r.Get("/files/{name}/content", s.shelf.Content)
			r.Get("/session", s.shelf.SessionUploads)
		})
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apperrors.RespondWithError(w, http.StatusNotFound, apperrors.CodeNotFound,
		fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	apperrors.RespondWithError(w, http.StatusMethodNotAllowed, apperrors.CodeMethodNotAllowed,
		fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path))
}
