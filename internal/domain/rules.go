package domain

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is the four cells of a win, used for highlighting only.
type Line [ToWin]Position

// forward offsets only, so every line is found from exactly one end
var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{-1, 1}, // diagonal /
}

// FindWinningLine scans the board row-major and returns the first line of
// four held by player.
func FindWinningLine(board *Board, player PlayerID) (Line, bool) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if board[row][col] != player {
				continue
			}
			for _, dir := range directions {
				if line, ok := lineFrom(board, row, col, dir[0], dir[1], player); ok {
					return line, true
				}
			}
		}
	}
	return Line{}, false
}

func lineFrom(board *Board, row, col, deltaRow, deltaCol int, player PlayerID) (Line, bool) {
	var line Line
	for i := 0; i < ToWin; i++ {
		r, c := row+deltaRow*i, col+deltaCol*i
		if r < 0 || r >= Rows || c < 0 || c >= Columns || board[r][c] != player {
			return Line{}, false
		}
		line[i] = Position{Row: r, Col: c}
	}
	return line, true
}

func HasWon(board *Board, player PlayerID) bool {
	_, ok := FindWinningLine(board, player)
	return ok
}

func IsDraw(board *Board) bool {
	return board.IsFull() && !HasWon(board, Player1) && !HasWon(board, Player2)
}
