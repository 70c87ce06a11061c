package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sponsor", bot.MatchTypePrefix, h.handleSponsorCommand)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ban", bot.MatchTypePrefix, h.handleBan)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unban", bot.MatchTypePrefix, h.handleUnban)

	// Menu callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "main_menu", bot.MatchTypeExact, h.handleMainMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "earn", bot.MatchTypeExact, h.handleEarn)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "promote", bot.MatchTypeExact, h.handlePromote)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cabinet", bot.MatchTypeExact, h.handleCabinet)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "referral", bot.MatchTypeExact, h.handleReferral)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "my_tasks", bot.MatchTypeExact, h.handleMyTasks)

	// Task callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "complete_task_", bot.MatchTypePrefix, h.handleCompleteTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "create_task", bot.MatchTypeExact, h.handleCreateTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cancel_create", bot.MatchTypeExact, h.handleCancelCreate)
}
