// Package server initializes and runs the application server.
// It opens the database and Redis connections, runs schema migrations,
// starts the mail dispatcher, and serves the HTTP API until a shutdown
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Dr-Stone27/Researchub/internal/logging"
	"github.com/Dr-Stone27/Researchub/internal/server/api"
	"github.com/Dr-Stone27/Researchub/internal/server/config"
	"github.com/Dr-Stone27/Researchub/internal/server/mailer"
	"github.com/Dr-Stone27/Researchub/internal/server/rate"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/repomanager"
	"github.com/Dr-Stone27/Researchub/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	rdb        *goredis.Client
	dispatcher *mailer.Dispatcher
	server     *api.Server
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: c.RedisAddr})
	limiter := rate.NewLimiter(rdb, c.LoginAttemptLimit, c.LoginAttemptWindow)

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	})
	dispatcher := mailer.NewDispatcher(smtpMailer, logger, c.MailQueueSize)

	accountService, err := services.NewAccountService(db, rm, limiter, dispatcher, logger, c)
	if err != nil {
		return nil, fmt.Errorf("account service init error: %w", err)
	}
	researchService := services.NewResearchService(db, rm, c)
	catalogService := services.NewCatalogService(db, rm)

	server := api.NewServer(c, logger, accountService, researchService, catalogService)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		rdb:        rdb,
		dispatcher: dispatcher,
		server:     server,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "starting HTTP server", "addr", app.config.EndpointAddrHTTP)
	if err := app.server.Run(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	// Drain queued mail before closing connections.
	app.dispatcher.Close()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()

	app.logger.Info(shutdownCtx, "Shutdown complete")
}
