package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks"
	"github.com/templeseva/priest_scheduler/internal/controller/handlers"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	sessions        *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	availabilityService *service.AvailabilityService,
	appointmentService *service.AppointmentService,
	sessions *state.Manager,
	location *time.Location,
	logger *zap.Logger,
) *BotController {
	callbackHandler := callbacks.NewHandler(
		availabilityService,
		appointmentService,
		sessions,
		location,
		logger,
	)

	cmdHandlers := handlers.NewHandlers(callbackHandler.Handler)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		sessions:        sessions,
		logger:          logger,
	}
}

// RegisterHandlers registers commands, dialogs and inline buttons
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypeExact, c.handlers.HandleAvailability)

	// commands with an argument
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/priest", bot.MatchTypePrefix, c.handlers.HandlePriest)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointment", bot.MatchTypePrefix, c.handlers.HandleAppointment)

	// plain text for the dialogs
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands sets the command menu of the bot
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "priest", Description: "🙏 Select the priest"},
		{Command: "availability", Description: "🗓 Availability calendar"},
		{Command: "appointment", Description: "➕ Add a manual appointment"},
		{Command: "cancel", Description: "✖️ Cancel and drop unsaved changes"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// SweepIdleSessions drops sessions untouched for longer than idle together with
// their drafts.
func (c *BotController) SweepIdleSessions(_ context.Context, idle time.Duration) error {
	swept := c.sessions.SweepIdle(idle)
	if len(swept) > 0 {
		c.logger.Info("Idle sessions discarded",
			zap.Int("count", len(swept)),
			zap.Int("remaining", c.sessions.Len()))
	}
	return nil
}

// Start runs the bot until ctx is done
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
