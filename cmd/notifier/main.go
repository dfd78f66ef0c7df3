package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet_care_notifier/internal/app"
	"pet_care_notifier/internal/domain/account"
	"pet_care_notifier/internal/domain/notification"
	"pet_care_notifier/internal/domain/pet"
	"pet_care_notifier/internal/domain/reminder"
	domainTelegram "pet_care_notifier/internal/domain/telegram"
	"pet_care_notifier/internal/infra/config"
	idb "pet_care_notifier/internal/infra/database"
	"pet_care_notifier/internal/infra/httpapi"
	"pet_care_notifier/internal/infra/logger"
	"pet_care_notifier/internal/infra/memory"
	"pet_care_notifier/internal/infra/scheduler"
	"pet_care_notifier/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLog := logger.Component("main")
	mainLog.Infof("configuration loaded: log_level=%s environment=%s", cfg.LogLevel, cfg.Environment)

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		accountRepo account.Repository
		petRepo     pet.Repository
		notifRepo   notification.Repository
		markerStore reminder.MarkerStore
	)
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLog.Fatalf("could not connect to database: %v", err)
		}
		defer db.Close()
		mainLog.Info("database connection established")

		accountRepo = idb.NewPostgresAccountRepository(db)
		petRepo = idb.NewPostgresPetRepository(db)
		notifRepo = idb.NewPostgresNotificationRepository(db)
		markerStore = idb.NewPostgresMarkerStore(db)
	} else {
		mainLog.Warn("DATABASE_URL not set, using in-memory stores")
		accountRepo = memory.NewAccountRepo()
		petRepo = memory.NewPetRepo()
		notifRepo = memory.NewNotificationRepo()
		markerStore = memory.NewMarkerStore()
	}

	// Push delivery channel, optional. The bot is used send-only: no handler
	// polling is started.
	var telegramClient domainTelegram.Client
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			mainLog.WithError(err).Warn("could not create Telegram bot, push delivery disabled")
		} else {
			telegramClient = telegram.NewTelebotAdapter(bot)
			mainLog.Info("Telegram push delivery enabled")
		}
	}

	notifService := app.NewNotificationService(notifRepo, accountRepo, telegramClient, logger.Component("notification_service"))
	reminderService := app.NewReminderService(
		accountRepo,
		petRepo,
		markerStore,
		notifService,
		reminder.DefaultRoutine,
		cfg.MarkerRetentionDays,
		logger.Component("reminder_service"),
	)

	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Component("scheduler"),
		cfg.CronSpecReminderCheck,
		cfg.CronSpecMarkerSweep,
	)
	if err := reminderScheduler.Start(); err != nil {
		mainLog.Fatalf("could not start reminder scheduler: %v", err)
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Notifications: notifService,
			Pets:          petRepo,
			Routine:       reminder.DefaultRoutine,
		}),
	}
	go func() {
		mainLog.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLog.WithError(err).Error("HTTP server shutdown failed")
	}
	reminderScheduler.Stop()
	mainLog.Info("shut down gracefully")
}
