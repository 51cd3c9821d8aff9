package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS", "BOT_DIFFICULTY", "AI_MOVE_DELAY_MS",
		"SESSION_IDLE_TIMEOUT_MINUTES", "CLEANUP_INTERVAL_MINUTES", "WS_MESSAGES_PER_SECOND", "WS_MESSAGE_BURST"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Same(t, AppConfig, cfg)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "hard", cfg.BotDifficulty)
	assert.Equal(t, 500*time.Millisecond, cfg.AIMoveDelay)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 10.0, cfg.WSMessagesPerSecond)
	assert.Equal(t, 20, cfg.WSMessageBurst)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "https://connect4.example.com")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com")
	t.Setenv("BOT_DIFFICULTY", "easy")
	t.Setenv("AI_MOVE_DELAY_MS", "0")
	t.Setenv("SESSION_IDLE_TIMEOUT_MINUTES", "not-a-number")
	t.Setenv("CLEANUP_INTERVAL_MINUTES", "-3")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "easy", cfg.BotDifficulty)
	assert.Equal(t, time.Duration(0), cfg.AIMoveDelay)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, []string{
		"https://connect4.example.com",
		"http://localhost:5173",
		"https://a.example.com",
		"https://b.example.com",
	}, cfg.AllowedOrigins)
}
