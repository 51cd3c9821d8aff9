package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-engine/internal/config"
)

var (
	difficulty string

	rootCmd = &cobra.Command{
		Use:   "connect4",
		Short: "Connect Four engine: game server and command-line analysis",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				if err := godotenv.Load("../.env"); err != nil {
					log.Println("No .env file found")
				}
			}
			config.LoadConfig()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket game server",
		RunE:  runServe, // Defined in serve.go
	}

	replayCmd = &cobra.Command{
		Use:   "replay [columns...]",
		Short: "Replay a move list from an empty board and print the position",
		Long: `Columns are played alternately starting with Player 1, for example:
  connect4 replay 3 3 4 2`,
		RunE: runReplay, // Defined in analyse.go
	}

	suggestCmd = &cobra.Command{
		Use:   "suggest [columns...]",
		Short: "Print the engine's column for the side to move after a move list",
		RunE:  runSuggest, // Defined in analyse.go
	}
)

func init() {
	suggestCmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "easy, medium or hard (default from BOT_DIFFICULTY)")

	rootCmd.AddCommand(serveCmd, replayCmd, suggestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
