// Package dashboard serves the sea level dashboard over HTTP.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sealevel/internal/coordinator"
)

const defaultShutdownTimeout = 10 * time.Second

// SnapshotProvider returns the snapshot to render, loading it if needed.
type SnapshotProvider interface {
	Get(ctx context.Context) (*coordinator.Snapshot, error)
}

// ServerConfig describes the dashboard server's dependencies.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	Snapshots       SnapshotProvider
	Logger          *slog.Logger
}

// Server is the dashboard HTTP server.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	router          *gin.Engine
	snapshots       SnapshotProvider
	logger          *slog.Logger
}

// NewServer builds the router and registers every route.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Snapshots == nil {
		return nil, errors.New("dashboard server requires a snapshot provider")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8501"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		router:          router,
		snapshots:       cfg.Snapshots,
		logger:          cfg.Logger,
	}
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.handlePage)
	router.GET("/download/:file", s.handleDownload)
	router.GET("/api/datasets", s.handleDatasetIndex)
	router.GET("/api/datasets/:name", s.handleDataset)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s, nil
}

// requestLogger logs every request at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start))
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled or the listener fails. Cancellation
// drains open connections within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			s.logger.Warn("http server shutdown incomplete", "error", err)
		}
		s.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
