package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/tickpiar/internal/config"
)

// TelegramLogger mirrors notable events into a log chat, one topic per
// event type. Disabled when no log chat is configured.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError         LogType = "error"
	LogTypeRegistration  LogType = "registration"
	LogTypeTaskCreated   LogType = "taskCreated"
	LogTypeTaskReward    LogType = "taskReward"
	LogTypeReferralBonus LogType = "referralBonus"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogRegistration(userID int64, name, username string) {
	msg := fmt.Sprintf("👤 *New Registration*\n\n*ID:* `%d`\n*Name:* %s\n*Username:* @%s",
		userID, name, username)
	l.Log(LogTypeRegistration, msg)
}

func (l *TelegramLogger) LogTaskCreated(creatorID int64, channel string, reward int) {
	msg := fmt.Sprintf("📢 *Task Created*\n\n*Creator:* `%d`\n*Channel:* %s\n*Reward:* %d",
		creatorID, channel, reward)
	l.Log(LogTypeTaskCreated, msg)
}

func (l *TelegramLogger) LogTaskReward(userID, taskID int64, reward int) {
	msg := fmt.Sprintf("💰 *Task Reward*\n\n*User:* `%d`\n*Task:* #%d\n*Reward:* %d",
		userID, taskID, reward)
	l.Log(LogTypeTaskReward, msg)
}

func (l *TelegramLogger) LogReferralBonus(referrerID, referredID, bonus int64) {
	msg := fmt.Sprintf("🔗 *Referral Bonus*\n\n*Referrer:* `%d`\n*Referred:* `%d`\n*Bonus:* %d",
		referrerID, referredID, bonus)
	l.Log(LogTypeReferralBonus, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeRegistration:
		return l.cfg.LogTopicRegistration
	case LogTypeTaskCreated:
		return l.cfg.LogTopicTaskCreated
	case LogTypeTaskReward:
		return l.cfg.LogTopicTaskReward
	case LogTypeReferralBonus:
		return l.cfg.LogTopicReferralBonus
	default:
		return 0
	}
}
