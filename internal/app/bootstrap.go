// Package app is the composition root. Bootstrap stays orchestration-only;
// behavior lives in the services it wires together.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"kennelbook.io/kennelbook/internal/api/handlers"
	"kennelbook.io/kennelbook/internal/config"
	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/infrastructure"
	"kennelbook.io/kennelbook/internal/jobs"
	"kennelbook.io/kennelbook/internal/notification"
	"kennelbook.io/kennelbook/internal/pkg/worker"
	"kennelbook.io/kennelbook/internal/service"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	DB     *infrastructure.DatabaseClients
	Pools  *worker.Pools
}

// Bootstrap initializes all dependencies with manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		ExportPoolSize:  cfg.Worker.ExportPoolSize,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	store := service.NewStorage(db.Store)
	sender := notification.NewInboxSender(store)

	dispatcher := domain.NewDispatcher()
	notification.NewTriggers(sender).Register(dispatcher)

	records := service.NewRecordService(store)
	cycles := service.NewCycleService(store, dispatcher)
	exports := service.NewExportService(store, pools)

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewHeatAlertWorker(store, sender))
	river.AddWorker(workers, jobs.NewNotificationCleanupWorker(store, cfg.Breeding.NotificationRetention))
	if err := db.InitRiverClient(workers, cfg.River); err != nil {
		pools.Shutdown()
		db.Close()
		return nil, fmt.Errorf("init river client: %w", err)
	}
	registerPeriodicJobs(db.RiverClient, cfg.Breeding)

	server := handlers.NewServer(handlers.ServerDeps{
		Records: records,
		Cycles:  cycles,
		Exports: exports,
		Store:   store,
		Pools:   pools,
		DB:      db.Pool,
	})

	return &Application{
		Config: cfg,
		Router: newRouter(cfg.Server, server),
		DB:     db,
		Pools:  pools,
	}, nil
}

// registerPeriodicJobs schedules the recurring scans. Both jobs are unique
// per period, so overlapping instances collapse into one.
func registerPeriodicJobs(client *river.Client[pgx.Tx], breeding config.BreedingConfig) {
	client.PeriodicJobs().Add(
		river.NewPeriodicJob(
			river.PeriodicInterval(breeding.AlertScanInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return jobs.HeatAlertArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	)
	// Retention cleanup runs daily and once on startup to keep the inbox
	// from growing without bound.
	client.PeriodicJobs().Add(
		river.NewPeriodicJob(
			river.PeriodicInterval(24*time.Hour),
			func() (river.JobArgs, *river.InsertOpts) {
				return jobs.NotificationCleanupArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	)
}
