package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/config"
	"github.com/set-night/tickpiar/internal/service"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	userService *service.UserService
	taskService *service.TaskService
	referrals   *service.ReferralService
	sponsors    *service.SponsorService
	membership  *service.MembershipService
	creation    *service.CreationService
	tgLogger    *tg.TelegramLogger
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	UserService *service.UserService
	TaskService *service.TaskService
	Referrals   *service.ReferralService
	Sponsors    *service.SponsorService
	Membership  *service.MembershipService
	Creation    *service.CreationService
	TgLogger    *tg.TelegramLogger
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		userService: deps.UserService,
		taskService: deps.TaskService,
		referrals:   deps.Referrals,
		sponsors:    deps.Sponsors,
		membership:  deps.Membership,
		creation:    deps.Creation,
		tgLogger:    deps.TgLogger,
		botUsername: deps.BotUsername,
	}
}

// respond edits the originating message for callbacks and sends a new one
// otherwise.
func (h *Handler) respond(ctx context.Context, b *bot.Bot, update *models.Update, text string, markup *models.InlineKeyboardMarkup) {
	if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
		msg := update.CallbackQuery.Message.Message
		tg.EditMarkdown(ctx, b, msg.Chat.ID, msg.ID, text, markup)
		return
	}
	if update.Message != nil {
		tg.SendMarkdown(ctx, b, update.Message.Chat.ID, text, markup)
	}
}

// answer acknowledges a callback query, optionally with an alert.
func (h *Handler) answer(ctx context.Context, b *bot.Bot, update *models.Update, text string, alert bool) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
		ShowAlert:       alert,
	})
}
