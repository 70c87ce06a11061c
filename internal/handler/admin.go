package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/domain"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func (h *Handler) handleBan(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setBanned(ctx, b, update, true)
}

func (h *Handler) handleUnban(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setBanned(ctx, b, update, false)
}

func (h *Handler) setBanned(ctx context.Context, b *bot.Bot, update *models.Update, banned bool) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.cfg.IsAdmin(msg.From.ID) {
		return
	}

	fields := strings.Fields(msg.Text)
	if len(fields) != 2 {
		tg.SendMarkdown(ctx, b, msg.Chat.ID, "⚙️ Использование: "+fields[0]+" <user_id>", nil)
		return
	}

	userID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		tg.SendMarkdown(ctx, b, msg.Chat.ID, "❌ Неверный ID пользователя.", nil)
		return
	}

	if err := h.userService.SetBanned(ctx, userID, banned); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			tg.SendMarkdown(ctx, b, msg.Chat.ID, "❌ Пользователь не найден.", nil)
			return
		}
		slog.Error("set banned", "error", err, "target", userID)
		tg.SendMarkdown(ctx, b, msg.Chat.ID, genericErrorText, nil)
		return
	}

	action := "разблокирован"
	if banned {
		action = "заблокирован"
	}
	tg.SendMarkdown(ctx, b, msg.Chat.ID, fmt.Sprintf("✅ Пользователь %d %s.", userID, action), nil)
}
