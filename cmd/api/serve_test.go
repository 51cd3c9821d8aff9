package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/iamasit07/connect4-engine/internal/transport/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                "0",
		AllowedOrigins:      []string{"http://localhost:5173"},
		BotDifficulty:       "easy",
		AIMoveDelay:         0,
		SessionIdleTimeout:  time.Hour,
		CleanupInterval:     time.Minute,
		WSMessagesPerSecond: 10,
		WSMessageBurst:      20,
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	sm := game.NewSessionManager(nil)
	router := newRouter(testConfig(), sm, websocket.NewConnectionManager())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "connect4_active_sessions")
}

func TestRouterUsesConfiguredDifficulty(t *testing.T) {
	router := newRouter(testConfig(), game.NewSessionManager(nil), websocket.NewConnectionManager())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "easy", string(snap.Difficulty))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
