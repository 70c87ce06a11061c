package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/config"
	"github.com/set-night/tickpiar/internal/domain"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func isGroupChat(chatType models.ChatType) bool {
	return chatType == models.ChatTypeGroup || chatType == models.ChatTypeSupergroup
}

// HandleTextGroup enforces the sponsor gate on group messages: a message
// from a member who is not subscribed to every active sponsor channel is
// deleted and answered with a short-lived warning.
func (h *Handler) HandleTextGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !isGroupChat(msg.Chat.Type) {
		return
	}

	missing, err := h.missingSubscriptions(ctx, msg.Chat.ID, msg.From.ID)
	if err != nil {
		slog.Error("sponsor gate check", "error", err, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
		return
	}
	if len(missing) == 0 {
		return
	}

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}); err != nil {
		slog.Warn("delete non-compliant message", "error", err, "chat_id", msg.Chat.ID)
	}

	name := msg.From.Username
	if name == "" {
		name = msg.From.FirstName
	}
	warning, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   fmt.Sprintf("⚠️ @%s, подпишитесь на спонсорские каналы для участия в чате!", name),
	})
	if err != nil {
		return
	}

	// The warning erases itself so the chat stays clean.
	go func(chatID int64, messageID int) {
		time.Sleep(config.GateWarningLifetime)
		ctx, cancel := context.WithTimeout(context.Background(), config.TransportTimeout)
		defer cancel()
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	}(msg.Chat.ID, warning.ID)
}

// HandleNewChatMembers restricts joining members until they satisfy the
// chat's sponsor gate.
func (h *Handler) HandleNewChatMembers(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroupChat(msg.Chat.Type) {
		return
	}

	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}

		missing, err := h.missingSubscriptions(ctx, msg.Chat.ID, member.ID)
		if err != nil {
			slog.Error("sponsor gate check for new member", "error", err, "chat_id", msg.Chat.ID, "user_id", member.ID)
			continue
		}
		if len(missing) == 0 {
			continue
		}

		if _, err := b.RestrictChatMember(ctx, &bot.RestrictChatMemberParams{
			ChatID:      msg.Chat.ID,
			UserID:      member.ID,
			Permissions: &models.ChatPermissions{},
		}); err != nil {
			slog.Warn("restrict new member", "error", err, "chat_id", msg.Chat.ID, "user_id", member.ID)
			continue
		}

		name := member.Username
		if name == "" {
			name = member.FirstName
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("👋 @%s, добро пожаловать!\n\n", name))
		sb.WriteString("🔒 Для участия в чате подпишитесь на спонсорские каналы:\n")
		for _, channel := range missing {
			sb.WriteString(fmt.Sprintf("📢 %s\n", channel))
		}
		sb.WriteString("\n✅ После подписки напишите в чат, чтобы снять ограничения.")

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   sb.String(),
		})
	}
}

// HandleMyChatMember greets the chat when the bot is added to a group.
func (h *Handler) HandleMyChatMember(ctx context.Context, b *bot.Bot, update *models.Update) {
	upd := update.MyChatMember
	if upd == nil || !isGroupChat(upd.Chat.Type) {
		return
	}

	status := upd.NewChatMember.Type
	if status != models.ChatMemberTypeMember && status != models.ChatMemberTypeAdministrator {
		return
	}

	text := "🤖 Привет! Я TickPiar Bot!\n\n" +
		"🛡️ Теперь я могу контролировать доступ к сообщениям в этом чате.\n" +
		"📢 Администраторы могут настроить обязательные подписки командой /sponsor."

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: upd.Chat.ID, Text: text})
}

// missingSubscriptions returns the active sponsor channels of the chat the
// user is not subscribed to. An empty gate means everyone complies.
func (h *Handler) missingSubscriptions(ctx context.Context, chatID, userID int64) ([]string, error) {
	sponsors, err := h.sponsors.ListActive(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, sponsor := range sponsors {
		if !h.membership.IsMember(ctx, sponsor.Channel, userID) {
			missing = append(missing, sponsor.Channel)
		}
	}
	return missing, nil
}

// handleSponsorCommand manages the chat's sponsor gate:
// /sponsor — list, /sponsor add @channel, /sponsor del @channel.
func (h *Handler) handleSponsorCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !isGroupChat(msg.Chat.Type) {
		tg.SendMarkdown(ctx, b, msg.Chat.ID, "⚙️ Команда /sponsor работает только в групповых чатах.", nil)
		return
	}

	if !h.isChatAdmin(ctx, b, msg.Chat.ID, msg.From.ID) && !h.cfg.IsAdmin(msg.From.ID) {
		tg.SendMarkdown(ctx, b, msg.Chat.ID, "❌ Только администраторы чата могут управлять спонсорскими каналами.", nil)
		return
	}

	fields := strings.Fields(msg.Text)
	switch {
	case len(fields) == 1:
		h.listSponsors(ctx, b, msg.Chat.ID)
	case len(fields) == 3 && fields[1] == "add":
		h.addSponsor(ctx, b, msg.Chat.ID, fields[2], msg.From.ID)
	case len(fields) == 3 && fields[1] == "del":
		h.removeSponsor(ctx, b, msg.Chat.ID, fields[2])
	default:
		tg.SendMarkdown(ctx, b, msg.Chat.ID,
			"⚙️ Использование:\n/sponsor — список\n/sponsor add @канал\n/sponsor del @канал", nil)
	}
}

func (h *Handler) listSponsors(ctx context.Context, b *bot.Bot, chatID int64) {
	sponsors, err := h.sponsors.ListActive(ctx, chatID)
	if err != nil {
		slog.Error("list sponsors", "error", err, "chat_id", chatID)
		tg.SendMarkdown(ctx, b, chatID, genericErrorText, nil)
		return
	}

	if len(sponsors) == 0 {
		tg.SendMarkdown(ctx, b, chatID, "📢 Спонсорские каналы не настроены.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📢 Обязательные подписки этого чата:\n\n")
	for _, sponsor := range sponsors {
		sb.WriteString(fmt.Sprintf("• %s\n", sponsor.Channel))
	}
	tg.SendMarkdown(ctx, b, chatID, sb.String(), nil)
}

func (h *Handler) addSponsor(ctx context.Context, b *bot.Bot, chatID int64, channel string, addedBy int64) {
	if !strings.HasPrefix(channel, "@") {
		tg.SendMarkdown(ctx, b, chatID, "❌ Укажите канал в формате @channel", nil)
		return
	}

	if _, err := h.sponsors.Add(ctx, chatID, channel, &addedBy); err != nil {
		slog.Error("add sponsor", "error", err, "chat_id", chatID, "channel", channel)
		tg.SendMarkdown(ctx, b, chatID, genericErrorText, nil)
		return
	}
	tg.SendMarkdown(ctx, b, chatID, fmt.Sprintf("✅ Канал %s добавлен в обязательные подписки.", channel), nil)
}

func (h *Handler) removeSponsor(ctx context.Context, b *bot.Bot, chatID int64, channel string) {
	err := h.sponsors.Remove(ctx, chatID, channel)
	if err != nil {
		if err == domain.ErrSponsorNotFound {
			tg.SendMarkdown(ctx, b, chatID, "❌ Такого канала нет в списке.", nil)
			return
		}
		slog.Error("remove sponsor", "error", err, "chat_id", chatID, "channel", channel)
		tg.SendMarkdown(ctx, b, chatID, genericErrorText, nil)
		return
	}
	tg.SendMarkdown(ctx, b, chatID, fmt.Sprintf("✅ Канал %s убран из обязательных подписок.", channel), nil)
}

func (h *Handler) isChatAdmin(ctx context.Context, b *bot.Bot, chatID, userID int64) bool {
	ctx, cancel := context.WithTimeout(ctx, config.TransportTimeout)
	defer cancel()

	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil || member == nil {
		return false
	}
	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator
}
