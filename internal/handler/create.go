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
	"github.com/set-night/tickpiar/internal/config"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/middleware"
	"github.com/set-night/tickpiar/internal/service"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func (h *Handler) handleCreateTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.CallbackQuery == nil {
		return
	}

	fresh, err := h.userService.GetByID(ctx, user.ID)
	if err != nil || fresh.Balance < int64(h.cfg.MinTaskReward) {
		h.answer(ctx, b, update, "❌ Недостаточно средств для создания задания", true)
		return
	}

	draft := h.creation.Begin(user.ID)
	slog.Info("task creation started", "draft_id", draft.ID, "user_id", user.ID)

	h.answer(ctx, b, update, "", false)

	text := "📝 Создание задания\n\n" +
		"Шаг 1/3: Отправьте username канала или чата\n\n" +
		"💡 Пример: @mychannel или @mychat\n" +
		"⚠️ Убедитесь, что бот добавлен в ваш канал/чат как администратор!"

	h.respond(ctx, b, update, text, tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("❌ Отмена", "cancel_create")),
	))
}

func (h *Handler) handleCancelCreate(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user != nil {
		h.creation.Cancel(user.ID)
	}
	h.answer(ctx, b, update, "Создание отменено", false)
	h.handlePromote(ctx, b, update)
}

// HandleTextPrivate feeds private free-text messages into the creation
// dialog. Messages from users with no live draft are ignored.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	draft, found := h.creation.Get(user.ID)
	if !found {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	chatID := update.Message.Chat.ID

	switch draft.State {
	case service.StateAwaitingChannel:
		h.handleChannelStep(ctx, b, chatID, user.ID, text)
	case service.StateAwaitingReward:
		h.handleRewardStep(ctx, b, chatID, user.ID, text)
	case service.StateAwaitingDescription:
		h.handleDescriptionStep(ctx, b, chatID, user.ID, draft.ID, text)
	}
}

func (h *Handler) handleChannelStep(ctx context.Context, b *bot.Bot, chatID, userID int64, text string) {
	if !strings.HasPrefix(text, "@") {
		tg.SendMarkdown(ctx, b, chatID, "❌ Username должен начинаться с @\nПример: @mychannel", nil)
		return
	}

	if !h.membership.BotIsAdmin(ctx, text) {
		tg.SendMarkdown(ctx, b, chatID,
			"❌ Бот должен быть администратором в канале/чате!\nДобавьте бота и повторите попытку.", nil)
		return
	}

	title := h.fetchChatTitle(ctx, b, text)

	if _, ok := h.creation.SetChannel(userID, text, title); !ok {
		return
	}

	msg := fmt.Sprintf(
		"📝 Создание задания\n\n"+
			"Шаг 2/3: Укажите награду за выполнение\n\n"+
			"💰 От %d до %d Tick коинов\n"+
			"📢 Канал: %s (%s)",
		h.cfg.MinTaskReward, h.cfg.MaxTaskReward, title, text,
	)
	tg.SendMarkdown(ctx, b, chatID, msg, nil)
}

func (h *Handler) handleRewardStep(ctx context.Context, b *bot.Bot, chatID, userID int64, text string) {
	reward, err := strconv.Atoi(text)
	if err != nil || reward < h.cfg.MinTaskReward || reward > h.cfg.MaxTaskReward {
		tg.SendMarkdown(ctx, b, chatID,
			fmt.Sprintf("❌ Неверная сумма награды.\nУкажите число от %d до %d", h.cfg.MinTaskReward, h.cfg.MaxTaskReward), nil)
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil || user.Balance < int64(reward) {
		tg.SendMarkdown(ctx, b, chatID, "❌ Недостаточно средств на балансе!", nil)
		return
	}

	if _, ok := h.creation.SetReward(userID, reward); !ok {
		return
	}

	msg := "📝 Создание задания\n\n" +
		"Шаг 3/3: Опишите задание (необязательно)\n\n" +
		"💡 Например: \"Подпишитесь на наш канал с новостями\"\n" +
		"Или отправьте \"" + config.SkipSentinel + "\" чтобы оставить стандартное описание"
	tg.SendMarkdown(ctx, b, chatID, msg, nil)
}

func (h *Handler) handleDescriptionStep(ctx context.Context, b *bot.Bot, chatID, userID int64, draftID, text string) {
	description := text
	if strings.EqualFold(text, config.SkipSentinel) {
		description = ""
	}

	draft, ok := h.creation.Finish(userID, description)
	if !ok {
		return
	}

	task, err := h.taskService.Create(ctx, userID, draft.Channel, draft.Title, draft.Reward, draft.Description)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			tg.SendMarkdown(ctx, b, chatID, "❌ Недостаточно средств на балансе!\nНачните создание заново.", nil)
			return
		}
		slog.Error("create task", "error", err, "draft_id", draftID, "user_id", userID)
		tg.SendMarkdown(ctx, b, chatID, "❌ Ошибка создания задания. Попробуйте позже.", nil)
		return
	}

	slog.Info("task created", "draft_id", draftID, "task_id", task.ID, "creator_id", userID, "reward", task.Reward)
	h.tgLogger.LogTaskCreated(userID, task.Channel, task.Reward)

	name := task.Title
	if name == "" {
		name = task.Channel
	}
	desc := task.Description
	if desc == "" {
		desc = "Стандартное"
	}
	msg := fmt.Sprintf(
		"✅ Задание создано успешно!\n\n"+
			"📢 Канал: %s\n"+
			"💰 Награда: %d Tick коинов\n"+
			"📝 Описание: %s\n\n"+
			"Ваше задание появилось в разделе \"Заработать\" для других пользователей!",
		name, task.Reward, desc,
	)
	tg.SendMarkdown(ctx, b, chatID, msg, nil)
}

// fetchChatTitle asks the platform for the channel's display title; an empty
// string is fine, the handle is shown instead.
func (h *Handler) fetchChatTitle(ctx context.Context, b *bot.Bot, channel string) string {
	ctx, cancel := context.WithTimeout(ctx, config.TransportTimeout)
	defer cancel()

	chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: channel})
	if err != nil || chat == nil {
		return ""
	}
	return chat.Title
}
