// Package server wires the recipebox application together: it opens the
// database, applies migrations, builds the services and runs the HTTP API
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/rest"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
)

const startupTimeout = 30 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	rs := services.NewRecipeService(db, rm, c)

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c, logger, us, rs, db),
	}
	app.warnInsecureSettings(ctx)

	return app, nil
}

func (app *App) warnInsecureSettings(ctx context.Context) {
	if !app.config.EnforceRecipeOwnership {
		app.logger.Warn(ctx, "recipe ownership is not enforced: any client can update or delete any recipe",
			"enable_with", "ENFORCE_RECIPE_OWNERSHIP=true or -o")
	}
	if app.config.SecretKey == config.DevSecretKey {
		app.logger.Warn(ctx, "using the development signing secret; set SECRET_KEY in production")
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a signal or ctx cancellation, then closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err.Error())
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
