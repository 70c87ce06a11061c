package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tickpiar "github.com/set-night/tickpiar"
	"github.com/set-night/tickpiar/internal/config"
	"github.com/set-night/tickpiar/internal/handler"
	"github.com/set-night/tickpiar/internal/middleware"
	"github.com/set-night/tickpiar/internal/repository"
	"github.com/set-night/tickpiar/internal/service"
	"github.com/set-night/tickpiar/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(tickpiar.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize query layer and services
	queries := repository.New(pool)
	referralService := service.NewReferralService(pool, queries, cfg.ReferralBonus)
	userService := service.NewUserService(pool, queries, referralService)
	taskService := service.NewTaskService(pool, queries, cfg)
	sponsorService := service.NewSponsorService(queries)
	creationService := service.NewCreationService(config.DraftTTL)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(queries),
			middleware.UserLoader(userService),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			if update.MyChatMember != nil {
				h.HandleMyChatMember(ctx, b, update)
				return
			}
			if update.Message != nil && len(update.Message.NewChatMembers) > 0 {
				h.HandleNewChatMembers(ctx, b, update)
				return
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	botUsername := cfg.BotUsername
	if botUsername == "" {
		botUsername = me.Username
	}

	membershipService := service.NewMembershipService(b, me.ID, config.TransportTimeout, config.MembershipCacheTTL)

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		UserService: userService,
		TaskService: taskService,
		Referrals:   referralService,
		Sponsors:    sponsorService,
		Membership:  membershipService,
		Creation:    creationService,
		TgLogger:    tgLogger,
		BotUsername: botUsername,
	})

	// Register all handlers
	h.Register()

	// Route free text: private messages feed the creation dialog, group
	// messages pass through the sponsor gate.
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if strings.HasPrefix(update.Message.Text, "/") {
			return
		}
		if update.Message.Chat.Type == models.ChatTypePrivate {
			h.HandleTextPrivate(ctx, b, update)
		} else {
			h.HandleTextGroup(ctx, b, update)
		}
	})

	// Evict abandoned creation drafts and stale rate-limit windows
	go func() {
		ticker := time.NewTicker(config.DraftSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := creationService.SweepExpired(); dropped > 0 {
					slog.Info("expired creation drafts dropped", "count", dropped)
				}
				if err := queries.CleanupStaleRateLimits(context.Background()); err != nil {
					slog.Error("cleanup stale rate limits", "error", err)
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", botUsername, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
