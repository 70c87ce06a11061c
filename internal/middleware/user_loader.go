package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// GetUser extracts the loaded user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// UserLoader returns middleware that finds or creates the sender and stores
// them in context. A referral deep-link payload on /start is resolved during
// creation; updates from banned users are dropped.
func UserLoader(userService *service.UserService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var referralPayload string

			if update.Message != nil {
				from = update.Message.From
				referralPayload = startPayload(update.Message.Text)
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			user, created, err := userService.FindOrCreate(ctx, from.ID, from.Username, from.FirstName, from.LastName, referralPayload)
			if err != nil {
				slog.Error("load user", "error", err, "user_id", from.ID)
				next(ctx, b, update)
				return
			}
			if created {
				slog.Info("user registered", "user_id", user.ID, "username", user.Username)
			}
			if user.IsBanned {
				slog.Debug("dropping update from banned user", "user_id", user.ID)
				return
			}

			next(context.WithValue(ctx, userKey, user), b, update)
		}
	}
}

// startPayload extracts the deep-link payload from a "/start <payload>"
// message, empty for anything else.
func startPayload(text string) string {
	if !strings.HasPrefix(text, "/start ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(text, "/start "))
}
