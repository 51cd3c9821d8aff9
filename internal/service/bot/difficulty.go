package bot

type BotDifficulty string

const (
	DifficultyEasy   BotDifficulty = "easy"
	DifficultyMedium BotDifficulty = "medium"
	DifficultyHard   BotDifficulty = "hard"
)

// ParseDifficulty validates and returns the bot difficulty
// Defaults to Hard if invalid or empty
func ParseDifficulty(difficulty string) BotDifficulty {
	switch difficulty {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyHard
	}
}

// SearchDepth is the alpha-beta depth for the level; easy does not search.
func (d BotDifficulty) SearchDepth() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 3
	default:
		return MINIMAX_DEPTH
	}
}
