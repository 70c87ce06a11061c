package handler

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/middleware"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func (h *Handler) handleReferral(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	referralLink := fmt.Sprintf("https://t.me/%s?start=%s", h.botUsername, user.ReferralCode)

	text := fmt.Sprintf(
		"🔗 Реферальная система\n\n"+
			"💰 За каждого приглашенного друга вы получите %d Tick коинов!\n\n"+
			"📤 Ваша реферальная ссылка:\n"+
			"%s\n\n"+
			"📢 Отправьте эту ссылку друзьям. Когда они запустят бота по вашей ссылке, вы получите бонус!",
		h.cfg.ReferralBonus, referralLink,
	)

	keyboard := tg.InlineKeyboard(
		tg.ButtonRow(tg.URLButton("📤 Поделиться", "https://t.me/share/url?url="+url.QueryEscape(referralLink))),
		tg.ButtonRow(tg.InlineButton("⬅️ Назад", "main_menu")),
	)

	h.respond(ctx, b, update, text, keyboard)
}
