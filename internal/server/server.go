// Package server exposes the analysis pipeline over a small JSON HTTP API.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/jobkit/cv-copilot/internal/analyzer"
	"github.com/jobkit/cv-copilot/internal/document"
	"github.com/jobkit/cv-copilot/internal/llm"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server wires the gin router to the analyzer. Requests are independent and
// stateless; nothing is shared between them but read-only configuration.
type Server struct {
	engine   *gin.Engine
	analyzer *analyzer.Analyzer
	logger   *zap.Logger
}

// New builds the router with its middleware and routes.
func New(a *analyzer.Analyzer, logger *zap.Logger, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		analyzer: a,
		logger:   logger,
	}

	engine.Use(s.requestID(), s.requestLog())

	engine.GET("/healthz", s.health)

	v1 := engine.Group("/api/v1")
	v1.POST("/analyze", s.analyze)
	v1.POST("/match", s.match)
	v1.POST("/analyze-job", s.analyzeJob)
	v1.POST("/optimize", s.optimize)
	v1.POST("/evaluate", s.evaluate)
	v1.POST("/cover-letter", s.coverLetter)

	return s
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const requestIDHeader = "X-Request-ID"

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// errorResponse maps domain errors onto HTTP statuses: input problems are the
// client's fault, provider and parse failures are upstream ones. Model
// failures are surfaced, never silently turned into partial reports.
func (s *Server) errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var providerErr *llm.ProviderError
	switch {
	case errors.Is(err, document.ErrEmptyDocument),
		errors.Is(err, document.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, llm.ErrInvalidResponseFormat),
		errors.As(err, &providerErr):
		status = http.StatusBadGateway
	}

	s.logger.Warn("request failed",
		zap.String("request_id", c.GetString("request_id")),
		zap.Int("status", status),
		zap.Error(err),
	)

	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
