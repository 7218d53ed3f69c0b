package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"study-scheduler/config"
	configSqlite "study-scheduler/config/sqlite"
	notificationSqlite "study-scheduler/internal/notification/repository/sqlite"
	notificationUC "study-scheduler/internal/notification/usecase"
	"study-scheduler/pkg/log"
	"study-scheduler/pkg/push"
)

// main is the entry point for the background dispatcher service.
// This binary runs the notification dispatch cycle on a cron schedule.
//
// Pattern:
//  1. Initialize infra (same as cmd/api/main.go)
//  2. Create UseCases
//  3. Schedule the dispatch cycle, run & graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting dispatcher service...")

	// Infrastructure
	db, err := configSqlite.Connect(ctx, cfg.Store)
	if err != nil {
		logger.Error(ctx, "Failed to open store: ", err)
		return
	}
	defer db.Close()

	repo := notificationSqlite.New(db, logger)

	var pushSender notificationUC.PushSender
	if cfg.Push.ProjectID != "" && cfg.Push.CredentialsPath != "" {
		pushClient, pushErr := push.NewClient(ctx, cfg.Push.ProjectID, cfg.Push.CredentialsPath, cfg.Push.RatePerSecond)
		if pushErr != nil {
			logger.Warnf(ctx, "Push transport not available (optional): %v", pushErr)
		} else {
			pushSender = pushClient
			logger.Info(ctx, "FCM push transport initialized")
		}
	}

	uc := notificationUC.New(logger, repo, pushSender, cfg.Dispatch.Workers)

	// Cron-driven dispatch cycle. Cycles never overrun each other: cron
	// skips a tick while the previous job for the same entry is running.
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DiscardLogger),
	))

	_, err = c.AddFunc(cfg.Dispatch.CronSpec, func() {
		result, cycleErr := uc.RunDispatchCycle(ctx, time.Now())
		if cycleErr != nil {
			logger.Errorf(ctx, "dispatch cycle failed: %v", cycleErr)
			return
		}
		if result.Delivered > 0 || result.RecurringSpawned > 0 || len(result.Errors) > 0 {
			logger.Infof(ctx, "dispatch cycle: delivered=%d spawned=%d errors=%d",
				result.Delivered, result.RecurringSpawned, len(result.Errors))
		}
	})
	if err != nil {
		logger.Errorf(ctx, "Invalid cron spec %q: %v", cfg.Dispatch.CronSpec, err)
		return
	}

	logger.Infof(ctx, "Dispatch cycle scheduled: %q", cfg.Dispatch.CronSpec)
	c.Start()

	<-ctx.Done()

	logger.Info(ctx, "Dispatcher shutting down...")
	<-c.Stop().Done()
	logger.Info(ctx, "Dispatcher stopped gracefully")
}
