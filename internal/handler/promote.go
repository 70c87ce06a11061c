package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/tickpiar/internal/middleware"
	tg "github.com/set-night/tickpiar/internal/telegram"
)

func (h *Handler) handlePromote(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	// Reload: the balance in context may predate a recent completion.
	fresh, err := h.userService.GetByID(ctx, user.ID)
	if err != nil {
		slog.Error("get user for promote menu", "error", err, "user_id", user.ID)
		h.respond(ctx, b, update, genericErrorText, h.backKeyboard("main_menu"))
		return
	}

	var sb strings.Builder
	sb.WriteString("📢 Рекламировать\n\n")
	sb.WriteString("Создавайте задания для продвижения ваших каналов!\n\n")
	sb.WriteString(fmt.Sprintf("💰 Ваш баланс: %d Tick коинов\n", fresh.Balance))
	sb.WriteString(fmt.Sprintf("💵 Минимальная награда: %d коинов\n", h.cfg.MinTaskReward))
	sb.WriteString(fmt.Sprintf("💵 Максимальная награда: %d коинов\n\n", h.cfg.MaxTaskReward))
	sb.WriteString("⚠️ Награда списывается с вашего баланса при создании задания.")

	keyboard := tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("✅ Создать задание", "create_task")),
		tg.ButtonRow(tg.InlineButton("📋 Мои задания", "my_tasks")),
		tg.ButtonRow(tg.InlineButton("⬅️ Назад", "main_menu")),
	)

	h.respond(ctx, b, update, sb.String(), keyboard)
}

func (h *Handler) handleMyTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answer(ctx, b, update, "", false)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	tasks, err := h.taskService.ListByCreator(ctx, user.ID)
	if err != nil {
		slog.Error("list tasks by creator", "error", err, "user_id", user.ID)
		h.respond(ctx, b, update, genericErrorText, h.backKeyboard("promote"))
		return
	}

	if len(tasks) == 0 {
		h.respond(ctx, b, update, "📋 У вас пока нет заданий.", h.backKeyboard("promote"))
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Ваши задания:\n\n")
	for _, task := range tasks {
		status := "🟢 активно"
		if !task.Available() {
			status = "🔴 завершено"
		}
		name := task.Title
		if name == "" {
			name = task.Channel
		}
		sb.WriteString(fmt.Sprintf("• %s — %d 🪙, выполнено %d/%d, %s\n",
			name, task.Reward, task.CompletedCount, task.MaxCompletions, status))
	}

	h.respond(ctx, b, update, sb.String(), h.backKeyboard("promote"))
}
