package bot

import (
	"context"
	"math"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const (
	MINIMAX_DEPTH = 5
	MINIMAX_WIN   = 1000000
	MINIMAX_LOSS  = -1000000
	MINIMAX_DRAW  = 0

	// the context is polled once per this many nodes
	cancelCheckInterval = 1024
)

// Random is the part of *rand.Rand used to break ties.
type Random interface {
	Intn(n int) int
}

type SearchResult struct {
	Column int
	Score  int
	Nodes  int
	// Ties lists every root column whose value equals Score.
	Ties []int
}

// searcher owns a private board and undoes every simulated drop on return,
// so a whole search touches a single Board value.
type searcher struct {
	ctx   context.Context
	board domain.Board
	nodes int
}

// AlphaBeta runs minimax with alpha-beta pruning from board, Player2
// maximizing and Player1 minimizing. The column is drawn uniformly from all
// root columns sharing the best value.
func AlphaBeta(ctx context.Context, board domain.Board, depth int, rng Random) (SearchResult, error) {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return SearchResult{Column: -1}, domain.ErrNoLegalMoves
	}
	if depth < 1 {
		depth = 1
	}

	s := &searcher{ctx: ctx, board: board}

	// If a move wins immediately, take it
	for _, col := range validColumns {
		s.board.Drop(col, domain.Player2)
		won := domain.HasWon(&s.board, domain.Player2)
		s.board.Lift(col)
		if won {
			return SearchResult{Column: col, Score: MINIMAX_WIN, Nodes: 1, Ties: []int{col}}, nil
		}
	}

	bestScore := math.MinInt32
	var ties []int

	for _, col := range validColumns {
		if err := ctx.Err(); err != nil {
			return SearchResult{Column: -1, Nodes: s.nodes}, err
		}

		// after the first child, search just below the best value: anything
		// that comes back >= bestScore is then an exact value, not a bound
		alpha := math.MinInt32
		if len(ties) > 0 {
			alpha = bestScore - 1
		}

		s.board.Drop(col, domain.Player2)
		score, err := s.minimax(depth-1, alpha, math.MaxInt32, false)
		s.board.Lift(col)
		if err != nil {
			return SearchResult{Column: -1, Nodes: s.nodes}, err
		}

		switch {
		case score > bestScore:
			bestScore = score
			ties = append(ties[:0], col)
		case score == bestScore:
			ties = append(ties, col)
		}
	}

	return SearchResult{
		Column: ties[rng.Intn(len(ties))],
		Score:  bestScore,
		Nodes:  s.nodes,
		Ties:   ties,
	}, nil
}

func (s *searcher) minimax(depth, alpha, beta int, isMaximizing bool) (int, error) {
	s.nodes++
	if s.nodes%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return 0, err
		}
	}

	// Terminal conditions
	if domain.HasWon(&s.board, domain.Player2) {
		return MINIMAX_WIN, nil
	}
	if domain.HasWon(&s.board, domain.Player1) {
		return MINIMAX_LOSS, nil
	}
	if s.board.IsFull() {
		return MINIMAX_DRAW, nil
	}
	if depth == 0 {
		return ScorePosition(&s.board, domain.Player2), nil
	}

	if isMaximizing {
		maxEval := math.MinInt32
		for col := 0; col < domain.Columns; col++ {
			if s.board[0][col] != domain.Empty {
				continue
			}
			s.board.Drop(col, domain.Player2)
			eval, err := s.minimax(depth-1, alpha, beta, false)
			s.board.Lift(col)
			if err != nil {
				return 0, err
			}

			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break // Beta cutoff
			}
		}
		return maxEval, nil
	}

	minEval := math.MaxInt32
	for col := 0; col < domain.Columns; col++ {
		if s.board[0][col] != domain.Empty {
			continue
		}
		s.board.Drop(col, domain.Player1)
		eval, err := s.minimax(depth-1, alpha, beta, true)
		s.board.Lift(col)
		if err != nil {
			return 0, err
		}

		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval, nil
}
