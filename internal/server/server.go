package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/cv"
)

// DefaultAllowedOrigins are the local frontends allowed by CORS when none are configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:5174",
}

// Processor runs the CV pipeline for one upload.
type Processor interface {
	Process(ctx context.Context, filename string, data []byte) (*cv.EmployeeRecord, error)
	MaxBytes() int64
}

type requestRecorder interface {
	Request(status string)
}

type Config struct {
	Address        string
	Version        string
	AllowedOrigins []string
}

type Server struct {
	cfg     Config
	proc    Processor
	metrics requestRecorder
	logger  *zap.Logger
	engine  *gin.Engine
}

// New wires the routes. metricsHandler is mounted on /metrics when not nil.
func New(cfg Config, proc Processor, metrics requestRecorder, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}

	s := &Server{
		cfg:     cfg,
		proc:    proc,
		metrics: metrics,
		logger:  logger,
	}

	engine := gin.New()
	engine.Use(
		requestID(),
		accessLog(logger),
		cors(cfg.AllowedOrigins),
		recovery(logger),
	)

	engine.GET("/", s.root)
	engine.GET("/health", s.health)
	if metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(metricsHandler))
	}
	engine.POST("/api/process-cv", s.processCV)

	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CV Parser API is running",
		"version": s.cfg.Version,
		"health":  "/health",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
