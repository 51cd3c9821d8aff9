package domain

import "fmt"

var BotNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Empty maps to Empty.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// CenterColumn is the middle column, weighted by the evaluator.
const CenterColumn = Columns / 2

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrIllegalMove      Error = "illegal move"
	ErrOutOfRange       Error = "column out of range"
	ErrColumnFull       Error = "column is full"
	ErrGameOver         Error = "game is already over"
	ErrAIThinking       Error = "computer is thinking"
	ErrNotComputerTurn  Error = "not the computer's turn"
	ErrNoLegalMoves     Error = "no legal moves"
	ErrInvalidHistory   Error = "invalid move history"
	ErrSearchSuperseded Error = "search superseded"
)

// IllegalMove wraps cause so that errors.Is matches both ErrIllegalMove and cause.
func IllegalMove(cause error) error {
	return fmt.Errorf("%w: %w", ErrIllegalMove, cause)
}

// InvariantViolation is only ever used as a panic value. It means the engine
// itself broke the gravity invariant.
type InvariantViolation struct {
	Msg string
}

func (e InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}
