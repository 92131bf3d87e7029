package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/config"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config   *config.Config
	Registry *registry.Registry

	// DB is nil when the in-memory store is selected.
	DB *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Registry: registry.New(),
	}

	if cfg.DBUrl == "" {
		utils.Logger.Info("DB_URL not set; using in-memory store")
		return app, nil
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)
	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("Connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	app.DB = dbPool
	return app, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("DB connection closed.")
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
