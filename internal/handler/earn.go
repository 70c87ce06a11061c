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
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func (h *Handler) handleEarn(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)
	h.showEarnMenu(ctx, b, update)
}

func (h *Handler) showEarnMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	tasks, err := h.taskService.ListAvailable(ctx, user.ID, config.TasksPerPage)
	if err != nil {
		slog.Error("list available tasks", "error", err, "user_id", user.ID)
		h.respond(ctx, b, update, genericErrorText, h.backKeyboard("main_menu"))
		return
	}

	if len(tasks) == 0 {
		h.respond(ctx, b, update,
			"💰 Заработать\n\n❌ Нет доступных заданий.\nСоздайте свое задание в разделе \"Рекламировать\"!",
			h.backKeyboard("main_menu"))
		return
	}

	var sb strings.Builder
	sb.WriteString("💰 Доступные задания:\n\n")

	var rows [][]models.InlineKeyboardButton
	for i, task := range tasks {
		name := task.Title
		if name == "" {
			name = task.Channel
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("💰 Награда: %d Tick коинов\n", task.Reward))
		desc := task.Description
		if desc == "" {
			desc = "Подпишитесь на канал"
		}
		sb.WriteString(fmt.Sprintf("📝 %s\n\n", desc))

		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("✅ Выполнить %d (%d 🪙)", i+1, task.Reward),
			fmt.Sprintf("complete_task_%d", task.ID),
		)))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ Назад", "main_menu")))

	h.respond(ctx, b, update, sb.String(), tg.InlineKeyboard(rows...))
}

func (h *Handler) handleCompleteTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	idStr := strings.TrimPrefix(update.CallbackQuery.Data, "complete_task_")
	taskID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.answer(ctx, b, update, "", false)
		return
	}

	task, err := h.taskService.GetByID(ctx, taskID)
	if err != nil {
		h.answer(ctx, b, update, "❌ Задание не найдено", true)
		return
	}

	// The user may have subscribed seconds ago; a cached negative answer
	// must not block the reward.
	h.membership.Invalidate(task.Channel, user.ID)
	if !h.membership.IsMember(ctx, task.Channel, user.ID) {
		h.answer(ctx, b, update, "", false)
		h.showSubscribePrompt(ctx, b, update, task)
		return
	}

	completed, err := h.taskService.Complete(ctx, user.ID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskAlreadyDone):
			h.answer(ctx, b, update, "Вы уже выполнили это задание", true)
		case errors.Is(err, domain.ErrTaskExhausted), errors.Is(err, domain.ErrTaskInactive):
			h.answer(ctx, b, update, "❌ Задание больше недоступно", true)
			h.showEarnMenu(ctx, b, update)
		case errors.Is(err, domain.ErrOwnTask):
			h.answer(ctx, b, update, "❌ Нельзя выполнять свое задание", true)
		case errors.Is(err, domain.ErrTaskNotFound):
			h.answer(ctx, b, update, "❌ Задание не найдено", true)
		default:
			slog.Error("complete task", "error", err, "user_id", user.ID, "task_id", taskID)
			h.answer(ctx, b, update, "❌ Произошла ошибка, попробуйте позже", true)
		}
		return
	}

	h.answer(ctx, b, update, fmt.Sprintf("✅ Задание выполнено! +%d Tick коинов", completed.Reward), false)
	h.tgLogger.LogTaskReward(user.ID, completed.ID, completed.Reward)
	h.showEarnMenu(ctx, b, update)
}

func (h *Handler) showSubscribePrompt(ctx context.Context, b *bot.Bot, update *models.Update, task *domain.Task) {
	subscribeURL := "https://t.me/" + strings.TrimPrefix(task.Channel, "@")

	text := fmt.Sprintf(
		"📢 Для выполнения задания подпишитесь на канал:\n\n"+
			"🔗 %s\n"+
			"💰 Награда: %d Tick коинов\n\n"+
			"После подписки нажмите \"Проверить подписку\"",
		task.Channel, task.Reward,
	)

	keyboard := tg.InlineKeyboard(
		tg.ButtonRow(tg.URLButton("📢 Подписаться", subscribeURL)),
		tg.ButtonRow(tg.InlineButton("✅ Проверить подписку", fmt.Sprintf("complete_task_%d", task.ID))),
		tg.ButtonRow(tg.InlineButton("⬅️ Назад", "earn")),
	)

	h.respond(ctx, b, update, text, keyboard)
}

func (h *Handler) backKeyboard(target string) *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("⬅️ Назад", target)))
}

const genericErrorText = "❌ Произошла ошибка. Попробуйте снова или перезапустите бота командой /start."
