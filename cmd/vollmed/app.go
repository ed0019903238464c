package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/vollmed/internal/db"
	"github.com/nkiryanov/vollmed/internal/handlers"
	"github.com/nkiryanov/vollmed/internal/handlers/routes"
	"github.com/nkiryanov/vollmed/internal/logger"
	"github.com/nkiryanov/vollmed/internal/metrics"
	"github.com/nkiryanov/vollmed/internal/repository/postgres"
	"github.com/nkiryanov/vollmed/internal/service/auth"
	"github.com/nkiryanov/vollmed/internal/service/auth/tokenmanager"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr  string
	Handler     http.Handler
	MetricsAddr string
	Metrics     http.Handler

	logger logger.Logger
	pool   *pgxpool.Pool
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config. Err: %w", err)
	}

	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	classifier, err := routes.New(routes.PublicRules(c.PublicPaths...)...)
	if err != nil {
		return nil, fmt.Errorf("invalid public paths. Err: %w", err)
	}

	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey, TTL: c.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)
	authService, err := auth.NewService(auth.Config{TokenTTL: c.TokenTTL}, tokenManager, storage.Credential())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	m := metrics.New()
	mux := handlers.NewRouter(authService, tokenManager, classifier, m, logger)

	return &ServerApp{
		ListenAddr:  c.ListenAddr,
		Handler:     mux,
		MetricsAddr: c.MetricsAddr,
		Metrics:     m.Handler(),
		logger:      logger,
		pool:        pool,
	}, nil
}

// Run starts http servers and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	servers := []*http.Server{{Addr: s.ListenAddr, Handler: s.Handler}}
	if s.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", s.Metrics)
		servers = append(servers, &http.Server{Addr: s.MetricsAddr, Handler: mux})
	}

	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	errs := make(chan error, len(servers))
	for _, srv := range servers {
		go func() {
			s.logger.Info("Starting server", "address", srv.Addr)
			err := srv.ListenAndServe()
			srvCtxCancel()
			errs <- err
		}()
	}

	<-srvCtx.Done()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...", "address", srv.Addr)
			_ = srv.Close()
		}
	}

	// Servers stopped by Shutdown report http.ErrServerClosed, anything else is the reason we stopped
	var runErr error
	for range servers {
		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) && runErr == nil {
			runErr = err
		}
	}
	s.logger.Info("HTTP server stopped")

	return runErr
}
