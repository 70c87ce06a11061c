package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Used in referral links; when empty the username reported by GetMe
	// is used instead.
	BotUsername string `env:"BOT_USERNAME"`

	// Economy
	ReferralBonus int64 `env:"REFERRAL_BONUS" envDefault:"10"`
	MinTaskReward int   `env:"MIN_TASK_REWARD" envDefault:"15"`
	MaxTaskReward int   `env:"MAX_TASK_REWARD" envDefault:"50"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram logging
	LogTelegramChatID     int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError         int   `env:"LOG_TOPIC_ERROR"`
	LogTopicRegistration  int   `env:"LOG_TOPIC_REGISTRATION"`
	LogTopicTaskCreated   int   `env:"LOG_TOPIC_TASK_CREATED"`
	LogTopicTaskReward    int   `env:"LOG_TOPIC_TASK_REWARD"`
	LogTopicReferralBonus int   `env:"LOG_TOPIC_REFERRAL_BONUS"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MinTaskReward > cfg.MaxTaskReward {
		return nil, fmt.Errorf("MIN_TASK_REWARD %d exceeds MAX_TASK_REWARD %d", cfg.MinTaskReward, cfg.MaxTaskReward)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
