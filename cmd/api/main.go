package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-scheduler/config"
	configSqlite "study-scheduler/config/sqlite"
	_ "study-scheduler/docs" // Swagger docs
	"study-scheduler/internal/httpserver"
	"study-scheduler/internal/middleware"
	notificationHTTP "study-scheduler/internal/notification/delivery/http"
	notificationSqlite "study-scheduler/internal/notification/repository/sqlite"
	notificationUC "study-scheduler/internal/notification/usecase"
	"study-scheduler/internal/schedule"
	scheduleHTTP "study-scheduler/internal/schedule/delivery/http"
	scheduleSqlite "study-scheduler/internal/schedule/repository/sqlite"
	scheduleUC "study-scheduler/internal/schedule/usecase"
	"study-scheduler/pkg/gcalendar"
	"study-scheduler/pkg/ics"
	"study-scheduler/pkg/log"
	"study-scheduler/pkg/push"
)

// @title       Study Scheduler API
// @description Conflict detection, study-time allocation and scheduled notifications for a student planner.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Study Scheduler...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Store
	db, err := configSqlite.Connect(ctx, cfg.Store)
	if err != nil {
		logger.Error(ctx, "Failed to open store: ", err)
		return
	}
	defer db.Close()

	scheduleRepo := scheduleSqlite.New(db, logger)
	notificationRepo := notificationSqlite.New(db, logger)

	// 4. Allocator timezone
	loc, tzErr := time.LoadLocation(cfg.Allocator.Timezone)
	if tzErr != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Allocator.Timezone, tzErr)
		loc = time.UTC
	}

	// 5. External calendar collaborators (optional)
	var calendarReader scheduleUC.CalendarBusyReader
	if cfg.Calendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.Calendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
		} else {
			calendarReader = calendarBusyAdapter{client: calendarClient}
			logger.Info(ctx, "Google Calendar initialized")
		}
	}

	var feedReader scheduleUC.FeedBusyReader
	if cfg.Calendar.FeedURL != "" {
		feedReader = feedBusyAdapter{client: ics.NewClient(0)}
		logger.Infof(ctx, "ICS busy feed configured: %s", cfg.Calendar.FeedURL)
	}

	// 6. Schedule domain
	scheduleUseCase, err := scheduleUC.New(logger, scheduleRepo, calendarReader, feedReader, scheduleUC.Config{
		CalendarID:  cfg.Calendar.CalendarID,
		FeedURL:     cfg.Calendar.FeedURL,
		SchoolStart: cfg.Allocator.SchoolStart,
		SchoolEnd:   cfg.Allocator.SchoolEnd,
		SleepStart:  cfg.Allocator.SleepStart,
		SleepEnd:    cfg.Allocator.SleepEnd,
		RelaxOrder:  cfg.Allocator.RelaxOrder,
		Timezone:    loc,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize schedule use case: ", err)
		return
	}

	// 7. Notification domain
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

	notificationUseCase := notificationUC.New(logger, notificationRepo, pushSender, cfg.Dispatch.Workers)

	// 8. HTTP server
	mw := middleware.New(logger, cfg.HTTPServer)

	scheduleHandler := scheduleHTTP.New(logger, scheduleUseCase, schedule.ChunkBounds{
		Min: cfg.Allocator.ChunkMinMinutes,
		Max: cfg.Allocator.ChunkMaxMinutes,
	})

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:              logger,
		Port:                cfg.HTTPServer.Port,
		Mode:                cfg.HTTPServer.Mode,
		Environment:         cfg.Environment.Name,
		Middleware:          mw,
		ScheduleHandler:     scheduleHandler,
		NotificationHandler: notificationHTTP.New(logger, notificationUseCase),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
