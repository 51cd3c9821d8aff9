package domain

import (
	"fmt"
	"strings"
)

// Board is a fixed grid, row 0 is the top and Rows-1 the bottom.
// Copying a Board value gives an independent snapshot.
type Board [Rows][Columns]PlayerID

func NewBoard() Board {
	return Board{}
}

func inColumnRange(column int) bool {
	return column >= 0 && column < Columns
}

func (b *Board) Cell(row, column int) PlayerID {
	return b[row][column]
}

func (b *Board) IsColumnFull(column int) (bool, error) {
	if !inColumnRange(column) {
		return false, ErrOutOfRange
	}

	// here board[0] represents the top row (0 -> top and 5 -> bottom)
	return b[0][column] != Empty, nil
}

// NextFreeRow returns the lowest empty row of column. ok is false when the
// column is full or out of range.
func (b *Board) NextFreeRow(column int) (row int, ok bool) {
	if !inColumnRange(column) {
		return -1, false
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			return row, true
		}
	}
	return -1, false
}

func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}

	return true
}

// Place puts player's disc at (row, column). The cell must be the lowest free
// cell of the column; anything else is an engine bug and panics.
func (b *Board) Place(column, row int, player PlayerID) {
	if !player.Valid() {
		panic(InvariantViolation{Msg: fmt.Sprintf("place: invalid player %d", player)})
	}
	next, ok := b.NextFreeRow(column)
	if !ok || next != row {
		panic(InvariantViolation{Msg: fmt.Sprintf("place: (%d,%d) is not the lowest free cell", row, column)})
	}
	b[row][column] = player
}

// Drop lets a disc fall to the lowest free row of column.
func (b *Board) Drop(column int, player PlayerID) (int, error) {
	if !inColumnRange(column) {
		return -1, ErrOutOfRange
	}
	row, ok := b.NextFreeRow(column)
	if !ok {
		return -1, ErrColumnFull
	}
	b.Place(column, row, player)
	return row, nil
}

// Lift removes the topmost disc of column. It undoes a Drop during search.
func (b *Board) Lift(column int) {
	for row := 0; row < Rows; row++ {
		if b[row][column] != Empty {
			b[row][column] = Empty
			return
		}
	}
	panic(InvariantViolation{Msg: fmt.Sprintf("lift: column %d is empty", column)})
}

// ValidMoves returns the non-full columns in ascending order.
func (b *Board) ValidMoves() []int {
	validMoves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b[0][col] == Empty {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// CheckGravity reports the first cell that floats above an empty cell.
func (b *Board) CheckGravity() error {
	for col := 0; col < Columns; col++ {
		for row := 0; row < Rows-1; row++ {
			if b[row][col] != Empty && b[row+1][col] == Empty {
				return InvariantViolation{Msg: fmt.Sprintf("disc at (%d,%d) has an empty cell beneath it", row, col)}
			}
			if v := b[row][col]; v != Empty && !v.Valid() {
				return InvariantViolation{Msg: fmt.Sprintf("cell (%d,%d) holds %d", row, col, v)}
			}
		}
	}
	return nil
}

// Swapped returns a copy with every disc changed to the other player's, so a
// search written for Player2 can be asked about Player1's move.
func (b *Board) Swapped() Board {
	var out Board
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if b[row][col] != Empty {
				out[row][col] = b[row][col].Opponent()
			}
		}
	}
	return out
}

// Ints converts the board for JSON payloads sent to clients.
func (b *Board) Ints() [][]int {
	out := make([][]int, Rows)
	for i := range b {
		out[i] = make([]int, Columns)
		for j := range b[i] {
			out[i][j] = int(b[i][j])
		}
	}
	return out
}

// String renders the board with X for Player1 and O for Player2.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		sb.WriteByte('|')
		for col := 0; col < Columns; col++ {
			switch b[row][col] {
			case Player1:
				sb.WriteByte('X')
			case Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" 0 1 2 3 4 5 6\n")
	return sb.String()
}
