package bot

import (
	"github.com/iamasit07/connect4-engine/internal/domain"
)

const (
	// Window weights, from the evaluated player's point of view
	SCORE_FOUR        = 100000
	SCORE_THREE_OPEN  = 50
	SCORE_TWO_OPEN    = 10
	SCORE_ONE_OPEN    = 1
	SCORE_OPP_THREE   = -80
	SCORE_OPP_TWO     = -5
	SCORE_CENTER_DISC = 6
)

type window [domain.ToWin]domain.Position

// allWindows holds every run of four cells on the board: 24 horizontal,
// 21 vertical and 12 for each diagonal.
var allWindows = buildWindows()

func buildWindows() []window {
	var windows []window
	add := func(row, col, dRow, dCol int) {
		var w window
		for i := range w {
			w[i] = domain.Position{Row: row + dRow*i, Col: col + dCol*i}
		}
		windows = append(windows, w)
	}

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col <= domain.Columns-domain.ToWin; col++ {
			add(row, col, 0, 1)
		}
	}
	for col := 0; col < domain.Columns; col++ {
		for row := 0; row <= domain.Rows-domain.ToWin; row++ {
			add(row, col, 1, 0)
		}
	}
	for row := 0; row <= domain.Rows-domain.ToWin; row++ {
		for col := 0; col <= domain.Columns-domain.ToWin; col++ {
			add(row, col, 1, 1)
		}
	}
	for row := domain.ToWin - 1; row < domain.Rows; row++ {
		for col := 0; col <= domain.Columns-domain.ToWin; col++ {
			add(row, col, -1, 1)
		}
	}
	return windows
}

// ScorePosition calculates a heuristic score of board for player. Higher is
// better for player.
func ScorePosition(board *domain.Board, player domain.PlayerID) int {
	score := 0

	// Center column preference
	for row := 0; row < domain.Rows; row++ {
		if board[row][domain.CenterColumn] == player {
			score += SCORE_CENTER_DISC
		}
	}

	opponent := player.Opponent()
	for _, w := range allWindows {
		score += evaluateWindow(board, w, player, opponent)
	}

	return score
}

func evaluateWindow(board *domain.Board, w window, player, opponent domain.PlayerID) int {
	mine, theirs, empty := 0, 0, 0
	for _, pos := range w {
		switch board[pos.Row][pos.Col] {
		case player:
			mine++
		case opponent:
			theirs++
		default:
			empty++
		}
	}

	score := 0
	switch {
	case mine == 4:
		score += SCORE_FOUR
	case mine == 3 && empty == 1:
		score += SCORE_THREE_OPEN
	case mine == 2 && empty == 2:
		score += SCORE_TWO_OPEN
	case mine == 1 && empty == 3:
		score += SCORE_ONE_OPEN
	}

	switch {
	case theirs == 3 && empty == 1:
		score += SCORE_OPP_THREE
	case theirs == 2 && empty == 2:
		score += SCORE_OPP_TWO
	}

	return score
}
