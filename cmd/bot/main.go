package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/templeseva/priest_scheduler/internal/app"
	"github.com/templeseva/priest_scheduler/internal/config"
	"github.com/templeseva/priest_scheduler/internal/controller"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting priest scheduler bot",
		zap.String("environment", cfg.Environment),
		zap.String("data_source", cfg.DataSource))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}
	defer container.Close()

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	sessions := state.NewManager()
	botController := controller.NewBotController(
		botInstance,
		container.Availability,
		container.Appointments,
		sessions,
		cfg.Location(),
		logger.Named("bot"),
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// the command menu is cosmetic, the bot still works without it
		logger.Warn("Bot commands were not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(logger.Named("scheduler"), app.Task{
		Name:     "session-sweeper",
		Interval: sweepInterval,
		Run: func(ctx context.Context) error {
			return botController.SweepIdleSessions(ctx, cfg.SessionIdleTimeout)
		},
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
