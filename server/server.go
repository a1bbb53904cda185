package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/metrics"
	"github.com/poiesic/hitcount/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
	shutdownTimeout     = 30 * time.Second
)

// Searcher runs aggregated searches.
type Searcher interface {
	Search(ctx context.Context, query string, providers []string) (*core.SearchResponse, error)
	Providers() []string
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query     string   `json:"query"`
	Providers []string `json:"providers"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	searcher Searcher
	history  storage.HistoryRepository
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithHistory enables GET /history.
func WithHistory(history storage.HistoryRepository) Option {
	return func(s *Server) error {
		s.history = history
		return nil
	}
}

// WithMetrics enables request metrics and GET /metrics.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Server) error {
		s.metrics = collector
		return nil
	}
}

// New creates a gin engine serving searcher.
func New(searcher Searcher, opts ...Option) (*gin.Engine, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	s := &Server{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	return s.router(), nil
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
		router.GET("/metrics", s.metrics.Handler())
	}

	router.GET("/health", s.handleHealth)
	router.GET("/providers", s.handleProviders)
	router.GET("/search", s.handleSearchQuery)
	router.POST("/search", s.handleSearchBody)
	router.GET("/history", s.handleHistory)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "hitcount",
	})
}

func (s *Server) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": s.searcher.Providers()})
}

func (s *Server) handleSearchQuery(c *gin.Context) {
	s.search(c, c.Query("q"), c.QueryArray("provider"))
}

func (s *Server) handleSearchBody(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	s.search(c, req.Query, req.Providers)
}

func (s *Server) search(c *gin.Context, query string, providers []string) {
	if err := core.ValidateSearchRequest(query, providers, s.searcher.Providers()); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := s.searcher.Search(c.Request.Context(), query, providers)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("search failed", "query", query, "err", err)
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrHistoryDisabled.Error()})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit),
			})
			return
		}
		limit = n
	}

	records, err := s.history.GetRecentSearches(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("reading history failed", "err", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"searches": historyEntries(records)})
}

// HistoryEntry is one search in the GET /history response.
type HistoryEntry struct {
	ID         uint64            `json:"id"`
	Query      string            `json:"query"`
	Providers  []string          `json:"providers"`
	Totals     core.EngineTotals `json:"totals"`
	SearchedAt time.Time         `json:"searched_at"`
}

func historyEntries(records []*core.SearchRecord) []HistoryEntry {
	entries := make([]HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = HistoryEntry{
			ID:         uint64(r.Id),
			Query:      r.Query,
			Providers:  r.Providers,
			Totals:     r.Totals,
			SearchedAt: r.SearchedAt,
		}
	}
	return entries
}

// statusFor maps a search error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnsupportedProvider),
		errors.Is(err, core.ErrInvalidQuery),
		errors.Is(err, core.ErrInvalidProviders):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs each request at debug level, or warn for 5xx.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start))
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
