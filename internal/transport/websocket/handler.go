package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/iamasit07/connect4-engine/pkg/useragent"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type Options struct {
	AllowedOrigins    []string
	DefaultDifficulty bot.BotDifficulty
	// AIMoveDelay is the pause before the computer answers a human move.
	AIMoveDelay time.Duration
	// MessagesPerSecond and MessageBurst bound inbound frames per socket.
	MessagesPerSecond float64
	MessageBurst      int
}

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
	opts           Options
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, opts Options) *Handler {
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = bot.DifficultyHard
	}
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = 10
	}
	if opts.MessageBurst <= 0 {
		opts.MessageBurst = 20
	}

	h := &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		opts:           opts,
	}
	h.Upgrader = websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(h.opts.AllowedOrigins, origin)
}

// HandleWebSocket attaches a socket to the session named by ?session=, or to
// a new session built from ?mode= and ?difficulty= when none is given.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	session, err := h.resolveSession(r)
	if err != nil {
		log.Printf("[WS] Rejecting connection: %v", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	log.Printf("[WS] Connection opened for session %s (%s)", session.ID, useragent.FromRequest(r))
	h.handleConnection(conn, session)
}

var errSessionNotFound = errors.New("session not found")

func (h *Handler) resolveSession(r *http.Request) (*game.GameSession, error) {
	query := r.URL.Query()
	if sessionID := query.Get("session"); sessionID != "" {
		session, exists := h.SessionManager.GetSessionByID(sessionID)
		if !exists {
			return nil, errSessionNotFound
		}
		return session, nil
	}

	difficulty := h.opts.DefaultDifficulty
	if d := query.Get("difficulty"); d != "" {
		difficulty = bot.ParseDifficulty(d)
	}
	return h.SessionManager.CreateSession(game.Options{
		Mode:       game.ParseMode(query.Get("mode")),
		Difficulty: difficulty,
	})
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, session *game.GameSession) {
	sessionID := session.ID
	ctx, cancel := context.WithCancel(context.Background())

	h.ConnManager.AddConnection(sessionID, conn)

	defer func() {
		cancel()
		h.ConnManager.RemoveConnectionIfMatching(sessionID, conn)
		log.Printf("[WS] Connection closed for session %s", sessionID)
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger; WriteControl may run alongside SendMessage
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	h.sendState(session)

	// The computer may owe a move, e.g. after a reconnect
	if session.IsComputerTurn() && !session.IsAIThinking() {
		go h.playAIMove(ctx, conn, session, session.Token(), 0)
	}

	limiter := rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.MessageBurst)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Session %s disconnected unexpectedly: %v", sessionID, err)
			}
			return
		}

		if !limiter.Allow() {
			h.ConnManager.SendError(sessionID, "Rate limit exceeded")
			continue
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.ConnManager.SendError(sessionID, "Invalid message format")
			continue
		}

		h.processMessage(ctx, conn, session, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(ctx context.Context, conn *websocket.Conn, session *game.GameSession, msg domain.ClientMessage) {
	sessionID := session.ID

	switch msg.Type {
	case "make_move":
		if session.Mode == game.ModeAI && session.IsComputerTurn() {
			h.ConnManager.SendError(sessionID, "Not your turn")
			return
		}
		outcome, err := session.ApplyMove(msg.Column)
		if err != nil {
			h.ConnManager.SendError(sessionID, err.Error())
			return
		}
		h.sendOutcome(session, outcome)

		if session.IsComputerTurn() {
			go h.playAIMove(ctx, conn, session, session.Token(), h.opts.AIMoveDelay)
		}

	case "request_ai_move":
		if !session.IsComputerTurn() {
			h.ConnManager.SendError(sessionID, domain.ErrNotComputerTurn.Error())
			return
		}
		if session.IsAIThinking() {
			h.ConnManager.SendError(sessionID, domain.ErrAIThinking.Error())
			return
		}
		go h.playAIMove(ctx, conn, session, session.Token(), 0)

	case "cancel_ai_move":
		if session.CancelAIMove() {
			log.Printf("[WS] AI move cancelled for session %s", sessionID)
		}
		h.sendState(session)

	case "reset":
		keepTally := msg.KeepTally == nil || *msg.KeepTally
		session.Reset(keepTally)
		h.sendState(session)

	case "reset_tally":
		session.ResetTally()
		h.sendState(session)

	case "get_state":
		h.sendState(session)

	default:
		h.ConnManager.SendError(sessionID, "Unknown message type: "+msg.Type)
	}
}

// playAIMove waits out delay, then searches and applies the computer's move
// for the position tok was taken at. A move superseded by a reset, cancel or
// reconnect is dropped silently.
func (h *Handler) playAIMove(ctx context.Context, conn *websocket.Conn, session *game.GameSession, tok game.Token, delay time.Duration) {
	h.ConnManager.SendMessage(session.ID, domain.ServerMessage{Type: "ai_thinking", SessionID: session.ID})

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	// A newer socket schedules its own move
	if !h.ConnManager.IsCurrentConnection(session.ID, conn) {
		return
	}

	outcome, err := session.PlayScheduledAIMove(ctx, tok)
	switch {
	case err == nil:
		h.sendOutcome(session, outcome)
	case errors.Is(err, domain.ErrSearchSuperseded), errors.Is(err, domain.ErrAIThinking),
		errors.Is(err, context.Canceled):
		log.Printf("[WS] AI move for session %s dropped: %v", session.ID, err)
	default:
		h.ConnManager.SendError(session.ID, err.Error())
	}
}

func (h *Handler) sendOutcome(session *game.GameSession, outcome game.MoveOutcome) {
	h.ConnManager.SendMessage(session.ID, domain.ServerMessage{
		Type:        "move_made",
		SessionID:   session.ID,
		Move:        &domain.Move{Column: outcome.Column, Row: outcome.Row, Player: outcome.Player},
		NextTurn:    outcome.NextTurn,
		Status:      outcome.Status,
		Winner:      outcome.Winner,
		WinningLine: outcome.WinningLine,
	})

	if outcome.Status == domain.StatusActive {
		return
	}
	tally := session.Tally()
	h.ConnManager.SendMessage(session.ID, domain.ServerMessage{
		Type:        "game_over",
		SessionID:   session.ID,
		Status:      outcome.Status,
		Winner:      outcome.Winner,
		WinningLine: outcome.WinningLine,
		Tally:       &tally,
	})
}

func (h *Handler) sendState(session *game.GameSession) {
	h.ConnManager.SendMessage(session.ID, domain.ServerMessage{
		Type:      "state",
		SessionID: session.ID,
		State:     session.Snapshot(),
	})
}
