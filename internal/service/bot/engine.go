package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const ErrSearchFailure domain.Error = "search failure"

type searchFunc func(ctx context.Context, board domain.Board, depth int, rng Random) (SearchResult, error)

// Engine chooses columns for the computer, which always plays Player2.
type Engine struct {
	search searchFunc
}

func NewEngine() *Engine {
	return &Engine{search: AlphaBeta}
}

// ChooseColumn selects the computer's column for board. A cancelled context
// is returned as is so the caller can drop the result. Any other failure is
// logged and replaced by a random legal column.
func (e *Engine) ChooseColumn(ctx context.Context, board domain.Board, difficulty BotDifficulty, rng Random) (int, error) {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoLegalMoves
	}

	start := time.Now()
	col, err := e.calculate(ctx, board, validColumns, difficulty, rng)
	searchDuration.WithLabelValues(string(difficulty)).Observe(time.Since(start).Seconds())

	if err == nil {
		searchTotal.WithLabelValues(string(difficulty), "ok").Inc()
		return col, nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		searchTotal.WithLabelValues(string(difficulty), "cancelled").Inc()
		return -1, err
	}

	log.Printf("[BOT] Search failed (difficulty %s), falling back to a random column: %v", difficulty, err)
	searchTotal.WithLabelValues(string(difficulty), "fallback").Inc()
	return validColumns[rng.Intn(len(validColumns))], nil
}

func (e *Engine) calculate(ctx context.Context, board domain.Board, validColumns []int, difficulty BotDifficulty, rng Random) (col int, err error) {
	defer func() {
		if r := recover(); r != nil {
			col, err = -1, fmt.Errorf("%w: %v", ErrSearchFailure, r)
		}
	}()

	if difficulty == DifficultyEasy {
		return CalculateBestMoveEasy(board, domain.Player2, rng), nil
	}

	result, err := e.search(ctx, board, difficulty.SearchDepth(), rng)
	if err != nil {
		return -1, err
	}
	searchNodes.Observe(float64(result.Nodes))

	if !slices.Contains(validColumns, result.Column) {
		return -1, fmt.Errorf("%w: search returned column %d", ErrSearchFailure, result.Column)
	}
	return result.Column, nil
}
