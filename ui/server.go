package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"effcost/adapters/excel"
	"effcost/app"
	"effcost/internal"
	"effcost/internal/config"
)

// Server exposes report generation over HTTP
type Server struct {
	router       *gin.Engine
	service      *app.ReportService
	readerConfig excel.ReaderConfig
	maxBodyBytes int64
	logger       *internal.Logger

	// Weighted semaphore bounding concurrent report computations
	computeSem *semaphore.Weighted
}

// NewServer creates a new report server with routes and middleware installed
func NewServer(service *app.ReportService, cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:       gin.New(),
		service:      service,
		readerConfig: cfg.ReaderConfig(),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
		logger:       logger.Named("Server"),
		computeSem:   semaphore.NewWeighted(cfg.Server.MaxConcurrent),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	v1.POST("/efficiency", s.handleEfficiency)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s, run %s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.Writer.Header().Get(runIDHeader))
	}
}
