package domain

import "fmt"

type Move struct {
	Column int      `json:"column"`
	Row    int      `json:"row"`
	Player PlayerID `json:"player"`
}

// MoveRecord is the serialized history entry; rows are implied by replay.
type MoveRecord struct {
	Column int      `json:"column"`
	Player PlayerID `json:"player"`
}

type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	WinningLine   *Line
	History       []Move
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

// MakeMove drops the current player's disc into column and advances the game.
func (g *Game) MakeMove(column int) (Move, error) {
	if g.IsFinished() {
		return Move{}, IllegalMove(ErrGameOver)
	}

	if !inColumnRange(column) {
		return Move{}, IllegalMove(ErrOutOfRange)
	}

	player := g.CurrentPlayer
	row, err := g.Board.Drop(column, player)
	if err != nil {
		return Move{}, IllegalMove(err)
	}

	move := Move{Column: column, Row: row, Player: player}
	g.History = append(g.History, move)

	if line, won := FindWinningLine(&g.Board, player); won {
		g.Status = StatusWon
		g.Winner = player
		g.WinningLine = &line
		return move, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return move, nil
	}

	g.CurrentPlayer = player.Opponent()

	return move, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// LegalColumns is empty once the game is over.
func (g *Game) LegalColumns() []int {
	if g.IsFinished() {
		return []int{}
	}
	return g.Board.ValidMoves()
}

func (g *Game) MoveCount() int {
	return len(g.History)
}

func (g *Game) Records() []MoveRecord {
	records := make([]MoveRecord, len(g.History))
	for i, m := range g.History {
		records[i] = MoveRecord{Column: m.Column, Player: m.Player}
	}
	return records
}

// Clone returns a deep copy that shares nothing with g.
func (g *Game) Clone() *Game {
	c := *g
	c.History = append([]Move(nil), g.History...)
	if g.WinningLine != nil {
		line := *g.WinningLine
		c.WinningLine = &line
	}
	return &c
}

// Replay rebuilds a game from an empty board. Each record must name the
// player whose turn it is and be a legal move.
func Replay(history []MoveRecord) (*Game, error) {
	g := NewGame()
	for i, rec := range history {
		if rec.Player != g.CurrentPlayer {
			return nil, fmt.Errorf("%w: move %d played by %d, expected %d", ErrInvalidHistory, i, rec.Player, g.CurrentPlayer)
		}
		if _, err := g.MakeMove(rec.Column); err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", ErrInvalidHistory, i, err)
		}
	}
	return g, nil
}

type Tally struct {
	Player1Wins int `json:"player1Wins"`
	Player2Wins int `json:"player2Wins"`
	Draws       int `json:"draws"`
}

// Record counts a finished game. Active games are ignored.
func (t *Tally) Record(g *Game) {
	switch g.Status {
	case StatusWon:
		if g.Winner == Player1 {
			t.Player1Wins++
		} else if g.Winner == Player2 {
			t.Player2Wins++
		}
	case StatusDraw:
		t.Draws++
	}
}
