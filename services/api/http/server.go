package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hyderaqi/hyderaqi/services/api/config"
	"github.com/hyderaqi/hyderaqi/services/api/history"
	"github.com/hyderaqi/hyderaqi/services/api/registry"
	"github.com/hyderaqi/hyderaqi/services/api/session"
)

// Deps are the domain services behind the REST API.
type Deps struct {
	Registry *registry.Registry
	History  *history.Generator
	Resolver session.Resolver
	Insights session.InsightSource
	Sessions *session.Store
	Logger   *slog.Logger
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     config.Config
	deps    Deps
	logger  *slog.Logger
	limiter *rate.Limiter
	engine  *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware())

	server := &Server{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		limiter: newLimiter(cfg.AIRateLimit, cfg.AIRateBurst),
		engine:  engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.registerV1Routes()
}

// modelTimeout bounds a request that makes model calls: two resolver
// stages plus an insights call, each capped by MODEL_TIMEOUT.
func (s *Server) modelTimeout() time.Duration {
	return 3*s.cfg.ModelTimeout + 5*time.Second
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
