// Package server wires the gophdrive server together: database and
// migrations, auth, services, the REST API and the gRPC health endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/rest"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"

	gs "github.com/dmitrijs2005/gophdrive/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *rest.Server
	grpcServer *gs.GRPCServer
}

// NewApp opens the database, applies pending migrations and builds both
// servers. Nothing is listening until Run is called.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	secret := c.SecretKey
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	tokens := auth.NewTokenService([]byte(secret), c.AccessTokenValidityDuration)
	gate := auth.NewGate(tokens)

	cache := services.NewMetadataCache(c.MetadataCacheSize, c.MetadataCacheTTL)
	us := services.NewUserService(db, rm, tokens)
	ss := services.NewStorageService(db, rm, cache)

	h := rest.NewHandler(us, ss, logger).WithTokenTTL(int64(tokens.TTL().Seconds()))
	router := rest.NewRouter(h, rest.NewHealthHandler(db), gate, logger,
		rest.RouterOptions{MaxRequestBodyBytes: c.MaxRequestBodyBytes})

	httpServer := rest.NewServer(c.EndpointAddrHTTP, router, logger, rest.ServerOptions{
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		IdleTimeout:     c.IdleTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	})
	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, c.HealthCheckInterval).
		WithShutdownTimeout(c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, httpServer: httpServer, grpcServer: grpcServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one server until ctx is done. A failing server cancels the
// whole app so the other one shuts down too.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or one of the servers fails,
// then waits for both servers to drain and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.EndpointAddrHTTP, "grpc", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
