package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "короткий текст", truncate("короткий текст"))

	long := strings.Repeat("я", MaxMessageLen+100)
	got := truncate(long)
	assert.Len(t, []rune(got), MaxMessageLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestInlineKeyboardLayout(t *testing.T) {
	kb := InlineKeyboard(
		ButtonRow(InlineButton("💰 Заработать", "earn"), InlineButton("📢 Рекламировать", "promote")),
		ButtonRow(URLButton("📤 Поделиться", "https://t.me/share/url?url=x")),
	)

	assert.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "earn", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "https://t.me/share/url?url=x", kb.InlineKeyboard[1][0].URL)
	assert.Empty(t, kb.InlineKeyboard[1][0].CallbackData)
}
