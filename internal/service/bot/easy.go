package bot

import (
	"github.com/iamasit07/connect4-engine/internal/domain"
)

// CalculateBestMoveEasy wins if it can, blocks if it must, and otherwise
// plays a random legal column.
func CalculateBestMoveEasy(board domain.Board, botPlayer domain.PlayerID, rng Random) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}

	opponent := botPlayer.Opponent()

	if col, ok := findImmediateWin(board, validColumns, botPlayer); ok {
		return col
	}

	if col, ok := findImmediateWin(board, validColumns, opponent); ok {
		return col
	}

	return validColumns[rng.Intn(len(validColumns))]
}

func findImmediateWin(board domain.Board, validColumns []int, player domain.PlayerID) (int, bool) {
	for _, col := range validColumns {
		board.Drop(col, player)
		won := domain.HasWon(&board, player)
		board.Lift(col)
		if won {
			return col, true
		}
	}
	return -1, false
}
