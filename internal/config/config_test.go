package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/tickpiar")
	t.Setenv("ADMIN_IDS", "1,2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.ReferralBonus)
	assert.Equal(t, 15, cfg.MinTaskReward)
	assert.Equal(t, 50, cfg.MaxTaskReward)
	assert.Equal(t, []int64{1, 2}, cfg.AdminIDs)
}

func TestLoadRejectsInvertedRewardBounds(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/tickpiar")
	t.Setenv("MIN_TASK_REWARD", "60")

	_, err := Load()
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{1, 2}}
	assert.True(t, cfg.IsAdmin(2))
	assert.False(t, cfg.IsAdmin(3))
}
