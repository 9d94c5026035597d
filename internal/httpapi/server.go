// Package httpapi exposes the docrag engine over HTTP: document ingest,
// grounded query, and health. JSON in, JSON out; core error kinds map to
// distinguishable status codes so callers can render actionable messages.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/chunk"
	"github.com/matheus-rech/docling-rag/internal/engine"
	"github.com/matheus-rech/docling-rag/internal/parser"
	"github.com/matheus-rech/docling-rag/internal/vectorindex"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server serves the docrag HTTP API. Ingested documents are registered in
// an in-process table keyed by handle ID; queries look handles up there.
type Server struct {
	echo   *echo.Echo
	engine *engine.Engine
	logger *zap.Logger
	config Config

	mu      sync.RWMutex
	handles map[string]*engine.Handle
}

// NewServer creates an HTTP server around the engine.
func NewServer(eng *engine.Engine, logger *zap.Logger, cfg Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8099
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  eng,
		logger:  logger,
		config:  cfg,
		handles: make(map[string]*engine.Handle),
	}

	e.GET("/healthz", s.handleHealth)
	api := e.Group("/api/v1")
	api.POST("/documents", s.handleIngest)
	api.POST("/query", s.handleQuery)

	return s, nil
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) handleHealth(c echo.Context) error {
	s.mu.RLock()
	documents := len(s.handles)
	s.mu.RUnlock()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"documents": documents,
	})
}

// IngestResponse is the response to a document ingest.
type IngestResponse struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

func (s *Server) handleIngest(c echo.Context) error {
	doc, err := parser.LoadJSON(c.Request().Body)
	if err != nil {
		return s.renderError(c, err)
	}

	handle, err := s.engine.Ingest(c.Request().Context(), doc)
	if err != nil {
		return s.renderError(c, err)
	}

	s.mu.Lock()
	s.handles[handle.ID] = handle
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, IngestResponse{
		DocumentID: handle.ID,
		Chunks:     handle.Len(),
	})
}

// QueryRequest asks a question against an ingested document.
type QueryRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
	K          int    `json:"k"`
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid_request", "malformed request body"))
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorBody("invalid_request", "query must not be empty"))
	}
	if req.K == 0 {
		req.K = 5
	}

	s.mu.RLock()
	handle, ok := s.handles[req.DocumentID]
	s.mu.RUnlock()
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("unknown_document", fmt.Sprintf("no document with id %q", req.DocumentID)))
	}

	answer, err := s.engine.Query(c.Request().Context(), handle, req.Query, req.K)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, answer)
}

// errorBody is the uniform error payload.
func errorBody(kind, message string) map[string]string {
	return map[string]string{"error": kind, "message": message}
}

// renderError maps core error kinds to status codes.
func (s *Server) renderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrNoResults):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("no_results", err.Error()))
	case errors.Is(err, engine.ErrUpstreamTimeout):
		return c.JSON(http.StatusBadGateway, errorBody("upstream_timeout", err.Error()))
	case errors.Is(err, parser.ErrInvalidDocument),
		errors.Is(err, chunk.ErrInvalidChunk),
		errors.Is(err, chunk.ErrDuplicateID),
		errors.Is(err, vectorindex.ErrInvalidArgument),
		errors.Is(err, vectorindex.ErrDimensionMismatch):
		return c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
	default:
		s.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("internal", "internal error"))
	}
}
