package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() (*gin.Engine, *game.SessionManager) {
	sm := game.NewSessionManager(nil)
	r := gin.New()
	NewGameHandler(sm, bot.DifficultyHard).Register(r)
	return r, sm
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine, body any) game.Snapshot {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func drawHistory() []domain.MoveRecord {
	cols := []int{2}
	for _, col := range []int{0, 1, 4, 5} {
		for i := 0; i < domain.Rows; i++ {
			cols = append(cols, col)
		}
	}
	for i := 0; i < domain.Rows-1; i++ {
		cols = append(cols, 2)
	}
	for _, col := range []int{3, 6} {
		for i := 0; i < domain.Rows; i++ {
			cols = append(cols, col)
		}
	}

	history := make([]domain.MoveRecord, len(cols))
	for i, col := range cols {
		player := domain.Player1
		if i%2 == 1 {
			player = domain.Player2
		}
		history[i] = domain.MoveRecord{Column: col, Player: player}
	}
	return history
}

func TestCreateAndGetSession(t *testing.T) {
	r, sm := newTestRouter()

	snap := createSession(t, r, nil)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, game.ModeAI, snap.Mode)
	assert.Equal(t, bot.DifficultyHard, snap.Difficulty)
	assert.Equal(t, domain.Player1, snap.CurrentPlayer)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, snap.LegalColumns)
	assert.Equal(t, 1, sm.Count())

	w := do(t, r, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionRejectsInvalidHistory(t *testing.T) {
	r, _ := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/sessions", gin.H{
		"history": []domain.MoveRecord{{Column: 0, Player: domain.Player2}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeMoveErrors(t *testing.T) {
	r, _ := newTestRouter()
	snap := createSession(t, r, gin.H{"mode": "local"})
	movePath := "/api/sessions/" + snap.ID + "/moves"

	w := do(t, r, http.MethodPost, movePath, gin.H{"column": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, movePath, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < domain.Rows; i++ {
		w = do(t, r, http.MethodPost, movePath, gin.H{"column": 0})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = do(t, r, http.MethodPost, movePath, gin.H{"column": 0})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/api/sessions/"+snap.ID+"/legal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var legal struct {
		Columns []int `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &legal))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, legal.Columns)
}

func TestMoveOnFullBoardIsUnprocessable(t *testing.T) {
	r, _ := newTestRouter()
	snap := createSession(t, r, gin.H{"mode": "local", "history": drawHistory()})
	assert.Equal(t, domain.StatusDraw, snap.Status)
	assert.Empty(t, snap.LegalColumns)

	w := do(t, r, http.MethodPost, "/api/sessions/"+snap.ID+"/moves", gin.H{"column": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAIMoveFlow(t *testing.T) {
	r, _ := newTestRouter()
	snap := createSession(t, r, gin.H{"mode": "ai", "difficulty": "medium"})
	base := "/api/sessions/" + snap.ID

	w := do(t, r, http.MethodPost, base+"/ai-move", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "human moves first")

	w = do(t, r, http.MethodPost, base+"/moves", gin.H{"column": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, base+"/ai-suggestion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var suggestion struct {
		Column int `json:"column"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestion))
	assert.GreaterOrEqual(t, suggestion.Column, 0)
	assert.Less(t, suggestion.Column, domain.Columns)

	w = do(t, r, http.MethodPost, base+"/ai-move", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var outcome game.MoveOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, domain.Player2, outcome.Player)
	assert.Equal(t, domain.Player1, outcome.NextTurn)

	w = do(t, r, http.MethodGet, base+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		History []domain.MoveRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, []domain.MoveRecord{
		{Column: 3, Player: domain.Player1},
		{Column: outcome.Column, Player: domain.Player2},
	}, history.History)
}

func TestResetAndTally(t *testing.T) {
	r, _ := newTestRouter()
	snap := createSession(t, r, gin.H{"mode": "local", "tally": domain.Tally{Player2Wins: 4}})
	base := "/api/sessions/" + snap.ID

	for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
		require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, base+"/moves", gin.H{"column": col}).Code)
	}

	w := do(t, r, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after game.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, domain.Tally{Player1Wins: 1, Player2Wins: 4}, after.Tally)
	assert.Empty(t, after.History)

	w = do(t, r, http.MethodPost, base+"/reset-tally", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, base+"/reset", gin.H{"keepTally": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, domain.Tally{}, after.Tally)
}

func TestReplayEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/replay", gin.H{"history": []domain.MoveRecord{
		{Column: 0, Player: domain.Player1}, {Column: 1, Player: domain.Player2},
		{Column: 0, Player: domain.Player1}, {Column: 1, Player: domain.Player2},
		{Column: 0, Player: domain.Player1}, {Column: 1, Player: domain.Player2},
		{Column: 0, Player: domain.Player1},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp replayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusWon, resp.Status)
	assert.Equal(t, domain.Player1, resp.Winner)
	assert.Equal(t, 7, resp.MoveCount)
	require.NotNil(t, resp.WinningLine)

	w = do(t, r, http.MethodPost, "/api/replay", gin.H{"history": []domain.MoveRecord{
		{Column: 0, Player: domain.Player1}, {Column: 0, Player: domain.Player1},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndDeleteSessions(t *testing.T) {
	r, sm := newTestRouter()
	first := createSession(t, r, nil)
	createSession(t, r, gin.H{"mode": "local"})

	w := do(t, r, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []sessionSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = do(t, r, http.MethodDelete, "/api/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, sm.Count())

	w = do(t, r, http.MethodDelete, "/api/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
