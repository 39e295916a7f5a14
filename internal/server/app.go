// Package server wires the todolist server together: storage, services,
// mail delivery and the HTTP endpoint, plus graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/todolist/internal/cryptox"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/auth"
	"github.com/dmitrijs2005/todolist/internal/server/config"
	"github.com/dmitrijs2005/todolist/internal/server/mail"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/services"
	"github.com/dmitrijs2005/todolist/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *web.HTTPServer
}

// NewLogger returns the JSON stdout logger used by every command.
func NewLogger() logging.Logger {
	return logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
}

// OpenStore connects to the configured database and applies pending
// migrations.
func OpenStore(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, rm, nil
}

func newMailer(c *config.Config, l logging.Logger) mail.Sender {
	if !c.MailConfigured() {
		return mail.NewLogSender(l)
	}
	return mail.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, rm, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	renderer, err := web.NewTemplateRenderer()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	secret := []byte(c.SecretKey)
	reset := services.NewResetService(db, rm, newMailer(c, logger),
		cryptox.NewCodeDigester(secret), c.ResetCodeTTL, logger)

	srv := web.NewHTTPServer(c.EndpointAddr, web.Deps{
		Sessions: services.NewSessionService(db, rm, logger),
		Lists:    services.NewListService(db, rm, logger),
		Users:    services.NewUserService(db, rm, logger),
		Reset:    reset,
		Codec:    auth.NewSessionCodec(secret, c.SessionTTL),
		Renderer: renderer,
		Logger:   logger,
	})

	return &App{config: c, logger: logger, db: db, server: srv}, nil
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
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done or a termination signal arrives, then closes
// the database.
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

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
