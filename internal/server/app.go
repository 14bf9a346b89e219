// Package server wires storage, the event bus and the marketplace services
// together and runs the gRPC and REST endpoints until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/handtohand/marketplace/internal/events"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/config"
	gs "github.com/handtohand/marketplace/internal/server/grpc"
	"github.com/handtohand/marketplace/internal/server/httpapi"
	"github.com/handtohand/marketplace/internal/server/repositories/repomanager"
	"github.com/handtohand/marketplace/internal/server/services"
)

const redisChannelPrefix = "handtohand:"

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	closers         []io.Closer
	matchService    *services.MatchService
	exchangeService *services.ExchangeService
	feedbackService *services.FeedbackService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var publisher events.Publisher = events.NopPublisher{}
	if c.RedisURL != "" {
		rdb, err := events.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, rdb)
		publisher = events.NewRedisPublisher(rdb, redisChannelPrefix)
	}

	bus := events.NewBus()
	bus.Subscribe(events.TypeExchangeProposed, services.NewProposalNotifier(rm))

	app.matchService = services.NewMatchService(db, rm, c, logger)
	app.exchangeService = services.NewExchangeService(db, rm, bus, publisher, c, logger)
	app.feedbackService = services.NewFeedbackService(db, rm, logger)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.matchService, app.exchangeService, app.feedbackService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.matchService, app.exchangeService, app.feedbackService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or either endpoint fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
