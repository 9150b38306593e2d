package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/runecheck/internal/config"
	"github.com/danmuck/runecheck/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownGrace = 5 * time.Second

// Server exposes the decoder over HTTP.
type Server struct {
	cfg      config.ServiceConfig
	logger   zerolog.Logger
	router   *gin.Engine
	appeared time.Time
}

// New builds the router. It fails instead of panicking when the CORS
// settings are rejected by gin-contrib/cors.
func New(cfg config.ServiceConfig, logger zerolog.Logger) (*Server, error) {
	corsCfg := cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("server: cors: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	if cfg.MetricsEnabled {
		observability.RegisterMetrics()
		r.Use(observability.RequestMetricsMiddleware(cfg.ID))
	}
	r.Use(cors.New(corsCfg))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   r,
		appeared: time.Now(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln and shuts down gracefully when ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Str("id", s.cfg.ID).Msg("serving")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info().Str("id", s.cfg.ID).Msg("stopped")
	return nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"http://localhost:3000"}
	}
	return in
}
