package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                string
	GinMode             string
	AllowedOrigins      []string
	FrontendURL         string
	BotDifficulty       string
	AIMoveDelay         time.Duration
	SessionIdleTimeout  time.Duration
	CleanupInterval     time.Duration
	WSMessagesPerSecond float64
	WSMessageBurst      int
	ShutdownTimeout     time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")
	ginMode := GetEnv("GIN_MODE", "release")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	allowedOrigins := []string{frontendURL}
	if frontendURL != "http://localhost:5173" {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173") // Local development
	}
	if allowedOriginsStr != "" {
		for _, origin := range strings.Split(allowedOriginsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Engine & sessions
	botDifficulty := GetEnv("BOT_DIFFICULTY", "hard")
	aiMoveDelay := GetEnvAsDuration("AI_MOVE_DELAY_MS", 500, time.Millisecond)
	idleTimeout := GetEnvAsDuration("SESSION_IDLE_TIMEOUT_MINUTES", 60, time.Minute)
	cleanupInterval := GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10, time.Minute)

	// WebSocket inbound rate limit
	wsRate := GetEnvAsInt("WS_MESSAGES_PER_SECOND", 10)
	wsBurst := GetEnvAsInt("WS_MESSAGE_BURST", 20)

	AppConfig = &Config{
		Port:                port,
		GinMode:             ginMode,
		AllowedOrigins:      allowedOrigins,
		FrontendURL:         frontendURL,
		BotDifficulty:       botDifficulty,
		AIMoveDelay:         aiMoveDelay,
		SessionIdleTimeout:  idleTimeout,
		CleanupInterval:     cleanupInterval,
		WSMessagesPerSecond: float64(wsRate),
		WSMessageBurst:      wsBurst,
		ShutdownTimeout:     30 * time.Second,
	}

	log.Printf("[CONFIG] Loaded (port: %s, difficulty: %s, idle timeout: %v, origins: %v)",
		port, botDifficulty, idleTimeout, allowedOrigins)
	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit. Negative values fall back
// to the default.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	value := GetEnvAsInt(key, defaultValue)
	if value < 0 {
		log.Printf("Negative value for %s: %d, using default: %d", key, value, defaultValue)
		value = defaultValue
	}
	return time.Duration(value) * unit
}
