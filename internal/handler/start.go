package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/middleware"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

const startText = "🪙 *TickPiar* — биржа взаимного пиара\n\n" +
	"💰 Зарабатывайте Tick коины, подписываясь на каналы.\n" +
	"📢 Тратьте коины на продвижение своих каналов.\n" +
	"🔗 Приглашайте друзей и получайте бонусы!"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatType := update.Message.Chat.Type
	if chatType != models.ChatTypePrivate {
		h.handleStartGroup(ctx, b, update)
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	// Referral payload (if any) was already resolved by the user loader.
	h.respond(ctx, b, update, startText, h.mainMenuKeyboard())
}

func (h *Handler) handleMainMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)
	h.respond(ctx, b, update, startText, h.mainMenuKeyboard())
}

func (h *Handler) mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("💰 Заработать", "earn")),
		tg.ButtonRow(tg.InlineButton("📢 Рекламировать", "promote")),
		tg.ButtonRow(tg.InlineButton("👤 Мой кабинет", "cabinet")),
		tg.ButtonRow(tg.InlineButton("🔗 Реферальная система", "referral")),
	)
}

func (h *Handler) handleStartGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	text := "🤖 Привет! Я TickPiar Bot!\n\n" +
		"🛡️ Я слежу за обязательными подписками в этом чате.\n" +
		"📢 Админы могут настроить спонсорские каналы командой /sponsor.\n\n" +
		"⚙️ /sponsor — список каналов\n" +
		"⚙️ /sponsor add @канал — добавить\n" +
		"⚙️ /sponsor del @канал — убрать"

	tg.SendMarkdown(ctx, b, update.Message.Chat.ID, text, nil)
}
