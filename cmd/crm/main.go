package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/edusched/tutor_crm/internal/app"
	"github.com/edusched/tutor_crm/internal/config"
	"github.com/edusched/tutor_crm/internal/notify"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Audit notifier: Telegram when configured, otherwise a no-op
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.TelegramToken != "" && cfg.AdminChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.AdminChatID)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tg
		logger.Info("Telegram audit notifier enabled", zap.Int64("chat_id", cfg.AdminChatID))
	}

	application := app.New(pool, cfg, notifier, logger)

	if unread, err := application.Messages.UnreadCount(ctx); err != nil {
		logger.Warn("Failed to count unread messages", zap.Error(err))
	} else {
		logger.Info("Message center ready", zap.Int("unread", unread))
	}

	logger.Info("tutor_crm engine started",
		zap.String("environment", cfg.Environment),
		zap.Int("lesson_rate", cfg.LessonRate),
	)

	<-ctx.Done()
	logger.Info("Shutting down")
}
