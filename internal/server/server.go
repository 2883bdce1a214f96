// Package server runs the HTTP listener and the fee job for the lifetime of the process
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/bootstrap"
	"github.com/yigit/dojo/internal/config"
)

const (
	seedTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server owns the router, the pool and the background jobs
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server

	stopJobs context.CancelFunc
	jobsWG   sync.WaitGroup
}

// NewServer loads config, connects, migrates, seeds and builds the router
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	bootstrap.SeedDefaults(seedCtx, cfg, deps)
	cancel()

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	if err := serveUploads(router, cfg.Server.StoragePath); err != nil {
		lgr.Error().Err(err).Str("path", cfg.Server.StoragePath).Msg("Uploads directory unavailable, diplomas will not be served")
	}

	return &Server{
		config: cfg,
		router: router,
		dbPool: dbPool,
		deps:   deps,
		logger: lgr,
	}, nil
}

// serveUploads exposes generated diplomas under /uploads
func serveUploads(router *gin.Engine, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	router.Static("/uploads", dir)
	return nil
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second, // roster exports can be slow
		IdleTimeout:       120 * time.Second,
	}

	s.startJobs()

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("mode", s.config.Server.Mode).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	if err := s.Shutdown(context.Background()); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (s *Server) startJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJobs = cancel

	s.jobsWG.Add(1)
	go func() {
		defer s.jobsWG.Done()
		s.deps.FeeStatusJob.Loop(ctx)
	}()
}

// Shutdown stops the jobs, drains HTTP, then closes Redis and the pool
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error

	if s.stopJobs != nil {
		s.stopJobs()
		s.jobsWG.Wait()
		s.logger.Info().Msg("Background jobs stopped")
	}

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if s.deps != nil && s.deps.PlanCache != nil {
		if err := s.deps.PlanCache.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Redis close error")
		}
	}

	if s.dbPool != nil {
		s.dbPool.Close()
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error().Err(err).Msg("Shutdown finished with errors")
		return err
	}
	s.logger.Info().Msg("Shutdown complete")
	return nil
}
