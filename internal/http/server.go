package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/embedd/internal/embeddings"
	"github.com/fyrsmithlabs/embedd/internal/vectorstore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultSearchK = 5
	maxSearchK     = 100
)

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	RequestTimeout time.Duration

	// Model is the configured embedding model name, echoed in responses.
	Model string

	// Version is the build version reported by /health.
	Version string
}

// Server exposes the embedding provider and vector store over HTTP.
type Server struct {
	echo     *echo.Echo
	provider embeddings.Provider
	store    vectorstore.Store
	logger   *zap.Logger
	config   *Config
}

// NewServer creates a new HTTP server.
func NewServer(provider embeddings.Provider, store vectorstore.Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8090,
		}
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s := &Server{
		echo:     e,
		provider: provider,
		store:    store,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/embed", s.handleEmbed)
	v1.POST("/embed_query", s.handleEmbedQuery)
	v1.POST("/documents", s.handleAddDocuments)
	v1.POST("/search", s.handleSearch)
}

// handleHealth returns service health and the active model.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Model:     s.config.Model,
		Dimension: s.provider.Dimension(),
		Version:   s.config.Version,
	})
}

// handleEmbed embeds a batch of texts.
func (s *Server) handleEmbed(c echo.Context) error {
	var req EmbedRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid embed request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Texts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "texts field is required")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	vectors, err := s.provider.EmbedDocuments(ctx, req.Texts)
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, EmbedResponse{
		Embeddings: vectors,
		Model:      s.config.Model,
		Dimension:  s.provider.Dimension(),
		Count:      len(vectors),
	})
}

// handleEmbedQuery embeds a single query text.
func (s *Server) handleEmbedQuery(c echo.Context) error {
	var req EmbedQueryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid embed_query request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	vector, err := s.provider.EmbedQuery(ctx, req.Text)
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, EmbedQueryResponse{
		Embedding: vector,
		Model:     s.config.Model,
		Dimension: s.provider.Dimension(),
	})
}

// handleAddDocuments embeds and stores documents.
func (s *Server) handleAddDocuments(c echo.Context) error {
	var req AddDocumentsRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid documents request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Documents) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "documents field is required")
	}
	for i, doc := range req.Documents {
		if doc.Content == "" {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("document %d has empty content", i))
		}
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	ids, err := s.store.AddDocuments(ctx, req.Documents)
	if err != nil {
		return s.mapError(err)
	}

	s.logger.Debug("stored documents", zap.Int("count", len(ids)))

	return c.JSON(http.StatusOK, AddDocumentsResponse{
		IDs:   ids,
		Count: len(ids),
	})
}

// handleSearch performs similarity search.
func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid search request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	k := req.K
	if k <= 0 {
		k = defaultSearchK
	}
	if k > maxSearchK {
		k = maxSearchK
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	var results []vectorstore.SearchResult
	var err error
	if req.Collection != "" {
		results, err = s.store.SearchInCollection(ctx, req.Collection, req.Query, k)
	} else {
		results, err = s.store.Search(ctx, req.Query, k)
	}
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}

// requestContext derives a bounded context for downstream calls.
func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.config.RequestTimeout)
}

// mapError translates domain sentinel errors to HTTP status codes.
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, embeddings.ErrEmptyInput),
		errors.Is(err, vectorstore.ErrEmptyDocuments),
		errors.Is(err, vectorstore.ErrInvalidCollectionName):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, vectorstore.ErrCollectionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	default:
		s.logger.Error("request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
