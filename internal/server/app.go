// Package server wires configuration, storage, services and transports
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/blob"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/ducks"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/notekeeper/internal/server/jobs"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

const closeTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *services.UserService
	noteService *services.NoteService
	duckService *services.DuckService
}

var openRepositories = repomanager.Open

// RepositoryOptions translates the configuration into storage options.
func RepositoryOptions(c *config.Config) repomanager.Options {
	return repomanager.Options{
		Storage:       c.Storage,
		DataDir:       c.DataDir,
		DatabaseDSN:   c.DatabaseDSN,
		MongoURL:      c.MongoURL,
		MongoDatabase: c.MongoDatabase,
		S3: blob.S3Settings{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Prefix:       c.S3Prefix,
		},
	}
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	hasher, err := auth.NewHasher(c.Hasher, c.BcryptCost)
	if err != nil {
		return nil, err
	}
	creds := auth.NewCredentials(hasher, auth.NewTokenManager([]byte(c.SecretKey), c.TokenValidity))

	repos, err := openRepositories(ctx, RepositoryOptions(c))
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(ctx, "Storage ready", "storage", c.Storage)

	catalog := ducks.NewClient(c.DuckAPIURL, c.DuckAPITimeout, nil)

	return &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		userService: services.NewUserService(repos, creds),
		noteService: services.NewNoteService(repos),
		duckService: services.NewDuckService(repos, catalog),
	}, nil
}

// Run serves HTTP and gRPC and runs the scheduler until ctx is cancelled,
// a termination signal arrives or one of them fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	scheduler := jobs.NewScheduler(app.logger)
	if err := scheduler.Add(app.config.SweepSchedule, jobs.NewOrphanSweepJob(app.noteService, app.logger, time.Minute)); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.NewHTTPServer(app.config.HTTPAddr, app.logger, app.userService, app.noteService, app.duckService).Run(gctx)
	})
	g.Go(func() error {
		return gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService).Run(gctx)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "App stopped with error", "error", err)
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()
	if cerr := app.repos.Close(closeCtx); cerr != nil {
		app.logger.Error(closeCtx, "Storage close failed", "error", cerr)
	}

	app.logger.Info(closeCtx, "App stopped")
	return err
}
