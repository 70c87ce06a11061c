package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/middleware"
)

func (h *Handler) handleCabinet(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	stats, err := h.userService.Stats(ctx, user.ID)
	if err != nil {
		slog.Error("get user stats", "error", err, "user_id", user.ID)
		h.respond(ctx, b, update, genericErrorText, h.backKeyboard("main_menu"))
		return
	}

	text := fmt.Sprintf(
		"👤 Мой кабинет\n\n"+
			"💰 Баланс: %d Tick коинов\n"+
			"✅ Выполнено заданий: %d\n"+
			"📢 Создано заданий: %d\n"+
			"🔗 Приглашено рефералов: %d\n\n"+
			"👤 Ваш ID: %d",
		stats.Balance, stats.CompletedTasks, stats.CreatedTasks, stats.Referrals, user.ID,
	)

	h.respond(ctx, b, update, text, h.backKeyboard("main_menu"))
}
