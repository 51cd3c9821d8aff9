package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/service/game"
)

func TestWorkerRemovesIdleSessions(t *testing.T) {
	sm := game.NewSessionManager(nil)
	_, err := sm.CreateSession(game.Options{Mode: game.ModeLocal, Seed: 1})
	require.NoError(t, err)

	w := NewWorker(sm, -time.Second, time.Hour)
	assert.Equal(t, 1, w.runCleanup())
	assert.Equal(t, 0, sm.Count())
}

func TestWorkerStopsWithContext(t *testing.T) {
	sm := game.NewSessionManager(nil)
	_, err := sm.CreateSession(game.Options{Mode: game.ModeLocal, Seed: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(sm, time.Hour, 5*time.Millisecond).Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sm.Count(), "fresh sessions survive")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
