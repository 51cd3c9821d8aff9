package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
)

// parseMoves accepts columns as separate arguments or comma separated, and
// assigns them to players alternately from Player1.
func parseMoves(args []string) ([]domain.MoveRecord, error) {
	var records []domain.MoveRecord
	player := domain.Player1
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			col, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("move %d: %q is not a column", len(records)+1, field)
			}
			records = append(records, domain.MoveRecord{Column: col, Player: player})
			player = player.Opponent()
		}
	}
	return records, nil
}

func printPosition(w io.Writer, g *domain.Game) {
	fmt.Fprint(w, g.Board.String())
	switch g.Status {
	case domain.StatusWon:
		fmt.Fprintf(w, "Player %d wins after %d moves: %v\n", g.Winner, g.MoveCount(), *g.WinningLine)
	case domain.StatusDraw:
		fmt.Fprintf(w, "Draw after %d moves\n", g.MoveCount())
	default:
		fmt.Fprintf(w, "Player %d to move, legal columns %v\n", g.CurrentPlayer, g.LegalColumns())
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	records, err := parseMoves(args)
	if err != nil {
		return err
	}
	g, err := domain.Replay(records)
	if err != nil {
		return err
	}
	printPosition(cmd.OutOrStdout(), g)
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	records, err := parseMoves(args)
	if err != nil {
		return err
	}
	g, err := domain.Replay(records)
	if err != nil {
		return err
	}
	if g.IsFinished() {
		printPosition(cmd.OutOrStdout(), g)
		return domain.ErrGameOver
	}

	level := difficulty
	if level == "" && config.AppConfig != nil {
		level = config.AppConfig.BotDifficulty
	}

	col, err := suggest(cmd.Context(), g, bot.ParseDifficulty(level), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printPosition(out, g)
	fmt.Fprintf(out, "Suggested column for Player %d: %d\n", g.CurrentPlayer, col)
	return nil
}

// suggest asks the engine for the side to move. The engine plays Player2, so
// Player1's positions are searched with the discs swapped.
func suggest(ctx context.Context, g *domain.Game, level bot.BotDifficulty, rng bot.Random) (int, error) {
	board := g.Board
	if g.CurrentPlayer == domain.Player1 {
		board = board.Swapped()
	}
	return bot.NewEngine().ChooseColumn(ctx, board, level, rng)
}
