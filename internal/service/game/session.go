package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
)

type Mode string

const (
	ModeAI    Mode = "ai"    // Player2 is played by the engine
	ModeLocal Mode = "local" // both sides are human, same device
)

// ParseMode defaults to ModeAI for anything it does not recognise.
func ParseMode(mode string) Mode {
	if mode == string(ModeLocal) {
		return ModeLocal
	}
	return ModeAI
}

// ComputerPlayer is the side the engine plays in ModeAI.
const ComputerPlayer = domain.Player2

type ColumnChooser interface {
	ChooseColumn(ctx context.Context, board domain.Board, difficulty bot.BotDifficulty, rng bot.Random) (int, error)
}

type Options struct {
	Mode       Mode
	Difficulty bot.BotDifficulty
	// Tally seeds the score counters, nil starts from zero.
	Tally *domain.Tally
	// History is replayed onto the fresh board when non-empty.
	History []domain.MoveRecord
	Chooser ColumnChooser
	// Seed for tie-breaks and fallbacks; zero picks a time-based seed.
	Seed int64
}

type MoveOutcome struct {
	Column      int               `json:"column"`
	Row         int               `json:"row"`
	Player      domain.PlayerID   `json:"player"`
	Status      domain.GameStatus `json:"status"`
	Winner      domain.PlayerID   `json:"winner,omitempty"`
	WinningLine *domain.Line      `json:"winningLine,omitempty"`
	NextTurn    domain.PlayerID   `json:"nextTurn"`
}

// Snapshot is the read-only projection handed to the presentation layer.
type Snapshot struct {
	ID            string            `json:"id"`
	Mode          Mode              `json:"mode"`
	Difficulty    bot.BotDifficulty `json:"difficulty"`
	Opponent      string            `json:"opponent"`
	Board         [][]int           `json:"board"`
	CurrentPlayer domain.PlayerID   `json:"currentPlayer"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.PlayerID   `json:"winner,omitempty"`
	WinningLine   *domain.Line      `json:"winningLine,omitempty"`
	LegalColumns  []int             `json:"legalColumns"`
	History       []domain.Move     `json:"history"`
	Tally         domain.Tally      `json:"tally"`
	AIThinking    bool              `json:"aiThinking"`
}

type GameSession struct {
	ID         string
	Mode       Mode
	Difficulty bot.BotDifficulty
	CreatedAt  time.Time

	game         *domain.Game
	tally        domain.Tally
	chooser      ColumnChooser
	rng          *rand.Rand
	pending      *AIRequest
	generation   uint64 // bumped on every reset or cancel
	lastActivity time.Time
	mu           sync.Mutex
}

func NewGameSession(id string, opts Options) (*GameSession, error) {
	g := domain.NewGame()
	if len(opts.History) > 0 {
		replayed, err := domain.Replay(opts.History)
		if err != nil {
			return nil, err
		}
		g = replayed
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeAI
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = bot.DifficultyHard
	}
	chooser := opts.Chooser
	if chooser == nil {
		chooser = bot.NewEngine()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	now := time.Now()
	gs := &GameSession{
		ID:           id,
		Mode:         mode,
		Difficulty:   difficulty,
		CreatedAt:    now,
		game:         g,
		chooser:      chooser,
		rng:          rand.New(rand.NewSource(seed)),
		lastActivity: now,
	}
	if opts.Tally != nil {
		gs.tally = *opts.Tally
	}
	return gs, nil
}

func (gs *GameSession) LegalColumns() []int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.LegalColumns()
}

// ApplyMove plays column for the player whose turn it is. It is rejected
// while a computer search is outstanding.
func (gs *GameSession) ApplyMove(column int) (MoveOutcome, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.pending != nil {
		return MoveOutcome{}, domain.IllegalMove(domain.ErrAIThinking)
	}
	return gs.applyLocked(column)
}

func (gs *GameSession) applyLocked(column int) (MoveOutcome, error) {
	if gs.game.Board.IsFull() {
		return MoveOutcome{}, domain.IllegalMove(domain.ErrNoLegalMoves)
	}

	move, err := gs.game.MakeMove(column)
	if err != nil {
		return MoveOutcome{}, err
	}
	gs.lastActivity = time.Now()

	if gs.game.IsFinished() {
		gs.tally.Record(gs.game)
		gamesFinished.WithLabelValues(resultLabel(gs.game)).Inc()
		log.Printf("[SESSION] Game over in session %s: %s (winner %d) after %d moves",
			gs.ID, gs.game.Status, gs.game.Winner, gs.game.MoveCount())
	}

	return MoveOutcome{
		Column:      move.Column,
		Row:         move.Row,
		Player:      move.Player,
		Status:      gs.game.Status,
		Winner:      gs.game.Winner,
		WinningLine: gs.game.Clone().WinningLine,
		NextTurn:    gs.game.CurrentPlayer,
	}, nil
}

func resultLabel(g *domain.Game) string {
	switch {
	case g.Status == domain.StatusDraw:
		return "draw"
	case g.Winner == domain.Player1:
		return "player1"
	default:
		return "player2"
	}
}

// RequestAIMove starts a search for the computer's column on a snapshot of
// the board. The game itself is not touched; the caller applies the result
// with ApplyMove once the request is done.
func (gs *GameSession) RequestAIMove(ctx context.Context) (*AIRequest, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.requestLocked(ctx)
}

func (gs *GameSession) requestLocked(ctx context.Context) (*AIRequest, error) {
	if gs.Mode != ModeAI {
		return nil, domain.IllegalMove(domain.ErrNotComputerTurn)
	}
	// A win on the last empty cell is still a finished game, not a full board
	if gs.game.Status == domain.StatusWon {
		return nil, domain.IllegalMove(domain.ErrGameOver)
	}
	if gs.game.Board.IsFull() {
		return nil, domain.ErrNoLegalMoves
	}
	if gs.game.CurrentPlayer != ComputerPlayer {
		return nil, domain.IllegalMove(domain.ErrNotComputerTurn)
	}
	if gs.pending != nil {
		return nil, domain.IllegalMove(domain.ErrAIThinking)
	}

	searchCtx, cancel := context.WithCancel(ctx)
	req := &AIRequest{
		done:       make(chan struct{}),
		cancel:     cancel,
		generation: gs.generation,
		moveCount:  gs.game.MoveCount(),
		column:     -1,
	}
	gs.pending = req

	// math/rand.Rand is not safe for concurrent use, so each search gets its own
	rng := rand.New(rand.NewSource(gs.rng.Int63()))
	go gs.runSearch(searchCtx, req, gs.game.Board, gs.Difficulty, rng)

	return req, nil
}

func (gs *GameSession) runSearch(ctx context.Context, req *AIRequest, board domain.Board, difficulty bot.BotDifficulty, rng *rand.Rand) {
	col, err := gs.chooser.ChooseColumn(ctx, board, difficulty, rng)
	req.cancel()

	gs.mu.Lock()
	if gs.pending == req {
		gs.pending = nil
	} else {
		col, err = -1, domain.ErrSearchSuperseded
	}
	gs.mu.Unlock()

	req.column, req.err = col, err
	close(req.done)
}

// CancelAIMove drops the outstanding search, if any. Its result is discarded,
// and moves scheduled from an earlier Token will not run.
func (gs *GameSession) CancelAIMove() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.cancelPendingLocked() {
		return true
	}
	gs.generation++
	return false
}

func (gs *GameSession) cancelPendingLocked() bool {
	if gs.pending == nil {
		return false
	}
	gs.pending.cancel()
	gs.pending = nil
	gs.generation++
	return true
}

// PlayAIMove requests the computer's column and applies it, unless the
// session was reset or moved on while the search ran.
func (gs *GameSession) PlayAIMove(ctx context.Context) (MoveOutcome, error) {
	req, err := gs.RequestAIMove(ctx)
	if err != nil {
		return MoveOutcome{}, err
	}
	return gs.finishAIMove(ctx, req)
}

// Token identifies the position a computer move was scheduled from.
type Token struct {
	generation uint64
	moveCount  int
}

// Token is taken when a computer move is scheduled and handed back to
// PlayScheduledAIMove once any delay has passed.
func (gs *GameSession) Token() Token {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.tokenLocked()
}

func (gs *GameSession) tokenLocked() Token {
	return Token{generation: gs.generation, moveCount: gs.game.MoveCount()}
}

// PlayScheduledAIMove is PlayAIMove for a move scheduled at tok. A reset,
// cancel or move since then makes it ErrSearchSuperseded without searching.
func (gs *GameSession) PlayScheduledAIMove(ctx context.Context, tok Token) (MoveOutcome, error) {
	gs.mu.Lock()
	if gs.tokenLocked() != tok {
		gs.mu.Unlock()
		return MoveOutcome{}, domain.ErrSearchSuperseded
	}
	req, err := gs.requestLocked(ctx)
	gs.mu.Unlock()
	if err != nil {
		return MoveOutcome{}, err
	}
	return gs.finishAIMove(ctx, req)
}

func (gs *GameSession) finishAIMove(ctx context.Context, req *AIRequest) (MoveOutcome, error) {
	col, err := req.Wait(ctx)
	if err != nil {
		return MoveOutcome{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.pending != nil || gs.generation != req.generation || gs.game.MoveCount() != req.moveCount {
		return MoveOutcome{}, domain.ErrSearchSuperseded
	}
	return gs.applyLocked(col)
}

// Reset starts a fresh game with Player1 to move. The tally survives unless
// keepTally is false.
func (gs *GameSession) Reset(keepTally bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.cancelPendingLocked()
	gs.generation++
	gs.game = domain.NewGame()
	if !keepTally {
		gs.tally = domain.Tally{}
	}
	gs.lastActivity = time.Now()

	log.Printf("[SESSION] Session %s reset (keep tally: %v)", gs.ID, keepTally)
}

func (gs *GameSession) ResetTally() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.tally = domain.Tally{}
	gs.lastActivity = time.Now()
}

func (gs *GameSession) Tally() domain.Tally {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.tally
}

func (gs *GameSession) History() []domain.MoveRecord {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.Records()
}

func (gs *GameSession) IsAIThinking() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.pending != nil
}

// IsComputerTurn reports whether the engine should move next.
func (gs *GameSession) IsComputerTurn() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Mode == ModeAI && !gs.game.IsFinished() && gs.game.CurrentPlayer == ComputerPlayer
}

func (gs *GameSession) LastActivity() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.lastActivity
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	g := gs.game.Clone()
	opponent := "Player 2"
	if gs.Mode == ModeAI {
		opponent = domain.GetBotName(string(gs.Difficulty))
	}

	return Snapshot{
		ID:            gs.ID,
		Mode:          gs.Mode,
		Difficulty:    gs.Difficulty,
		Opponent:      opponent,
		Board:         g.Board.Ints(),
		CurrentPlayer: g.CurrentPlayer,
		Status:        g.Status,
		Winner:        g.Winner,
		WinningLine:   g.WinningLine,
		LegalColumns:  g.LegalColumns(),
		History:       g.History,
		Tally:         gs.tally,
		AIThinking:    gs.pending != nil,
	}
}

// Close cancels any search so its goroutine can finish.
func (gs *GameSession) Close() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.cancelPendingLocked()
}

// AIRequest is an outstanding computer search. Cancelling it has no side
// effects beyond discarding the result.
type AIRequest struct {
	done       chan struct{}
	cancel     context.CancelFunc
	generation uint64
	moveCount  int
	column     int
	err        error
}

func (r *AIRequest) Done() <-chan struct{} {
	return r.done
}

func (r *AIRequest) Cancel() {
	r.cancel()
}

// Wait blocks until the search finishes or ctx ends. Ending ctx also cancels
// the search.
func (r *AIRequest) Wait(ctx context.Context) (int, error) {
	select {
	case <-r.done:
		return r.column, r.err
	case <-ctx.Done():
		r.cancel()
		return -1, ctx.Err()
	}
}
