package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
)

type GameHandler struct {
	SessionManager    *game.SessionManager
	DefaultDifficulty bot.BotDifficulty
}

func NewGameHandler(sm *game.SessionManager, defaultDifficulty bot.BotDifficulty) *GameHandler {
	return &GameHandler{SessionManager: sm, DefaultDifficulty: defaultDifficulty}
}

// Register mounts the session API under /api.
func (h *GameHandler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.GET("/sessions/:id/legal", h.GetLegalColumns)
	api.POST("/sessions/:id/moves", h.MakeMove)
	api.POST("/sessions/:id/ai-move", h.PlayAIMove)
	api.GET("/sessions/:id/ai-suggestion", h.SuggestAIMove)
	api.POST("/sessions/:id/reset", h.Reset)
	api.POST("/sessions/:id/reset-tally", h.ResetTally)
	api.GET("/sessions/:id/history", h.GetHistory)
	api.POST("/replay", h.Replay)
}

type createSessionRequest struct {
	Mode       string              `json:"mode"`
	Difficulty string              `json:"difficulty"`
	History    []domain.MoveRecord `json:"history"`
	Tally      *domain.Tally       `json:"tally"`
}

func (h *GameHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	difficulty := h.DefaultDifficulty
	if req.Difficulty != "" {
		difficulty = bot.ParseDifficulty(req.Difficulty)
	}

	session, err := h.SessionManager.CreateSession(game.Options{
		Mode:       game.ParseMode(req.Mode),
		Difficulty: difficulty,
		Tally:      req.Tally,
		History:    req.History,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

type sessionSummary struct {
	ID         string            `json:"id"`
	Mode       game.Mode         `json:"mode"`
	Difficulty bot.BotDifficulty `json:"difficulty"`
	Status     domain.GameStatus `json:"status"`
	MoveCount  int               `json:"moveCount"`
	CreatedAt  string            `json:"createdAt"`
}

// ListSessions returns every live session, oldest first.
func (h *GameHandler) ListSessions(c *gin.Context) {
	sessions := h.SessionManager.ListSessions()

	response := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		response = append(response, sessionSummary{
			ID:         s.ID,
			Mode:       s.Mode,
			Difficulty: s.Difficulty,
			Status:     snap.Status,
			MoveCount:  len(snap.History),
			CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) session(c *gin.Context) (*game.GameSession, bool) {
	session, exists := h.SessionManager.GetSessionByID(c.Param("id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}

func (h *GameHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) DeleteSession(c *gin.Context) {
	if err := h.SessionManager.RemoveSession(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) GetLegalColumns(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": session.LegalColumns()})
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

func (h *GameHandler) MakeMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	outcome, err := session.ApplyMove(*req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// PlayAIMove runs the search and applies the computer's move.
func (h *GameHandler) PlayAIMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	outcome, err := session.PlayAIMove(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// SuggestAIMove reports the column the computer would play without playing it.
func (h *GameHandler) SuggestAIMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	req, err := session.RequestAIMove(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	column, err := req.Wait(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"column": column})
}

type resetRequest struct {
	KeepTally *bool `json:"keepTally"`
}

func (h *GameHandler) Reset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req resetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	keepTally := req.KeepTally == nil || *req.KeepTally

	session.Reset(keepTally)
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) ResetTally(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.ResetTally()
	c.JSON(http.StatusOK, gin.H{"tally": session.Tally()})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": session.History()})
}

type replayRequest struct {
	History []domain.MoveRecord `json:"history"`
}

type replayResponse struct {
	Board         [][]int           `json:"board"`
	CurrentPlayer domain.PlayerID   `json:"currentPlayer"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.PlayerID   `json:"winner,omitempty"`
	WinningLine   *domain.Line      `json:"winningLine,omitempty"`
	LegalColumns  []int             `json:"legalColumns"`
	MoveCount     int               `json:"moveCount"`
}

// Replay validates a move history and returns the position it leads to.
func (h *GameHandler) Replay(c *gin.Context) {
	var req replayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	g, err := domain.Replay(req.History)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, replayResponse{
		Board:         g.Board.Ints(),
		CurrentPlayer: g.CurrentPlayer,
		Status:        g.Status,
		Winner:        g.Winner,
		WinningLine:   g.WinningLine,
		LegalColumns:  g.LegalColumns(),
		MoveCount:     g.MoveCount(),
	})
}

// statusFor maps engine errors onto HTTP codes. More specific causes are
// checked before the ErrIllegalMove wrapper they travel in.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrInvalidHistory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoLegalMoves):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIllegalMove), errors.Is(err, domain.ErrSearchSuperseded),
		errors.Is(err, domain.ErrAIThinking), errors.Is(err, domain.ErrNotComputerTurn),
		errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
