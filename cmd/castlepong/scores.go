package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top high scores for the specified game mode (default: siege).

Examples:
  castlepong scores
  castlepong scores siege_endless --limit 20
  castlepong scores siege --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score recorded for the game")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := "siege"
	if len(args) == 1 {
		gameID = args[0]
	}

	info, ok := registry.Info(gameID)
	if !ok {
		return fmt.Errorf("unknown game %q, run 'castlepong list' to see available games", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		return clearScores(store, info)
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'castlepong play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-4s  %s\n", "Rank", "Score", "Wave", "When")
	fmt.Printf("  %-4s  %-10s  %-4s  %s\n", "----", "-----", "----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10s  %-4d  %s\n", i+1, humanize.Comma(int64(entry.Score)), entry.Wave, humanize.Time(entry.CreatedAt))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %s over %s games, furthest wave %d\n",
			humanize.Comma(int64(stats.HighScore)), humanize.Comma(int64(stats.GamesCount)), stats.BestWave)
	}
	return nil
}

func clearScores(store *storage.Store, info registry.GameInfo) error {
	best, err := store.HighScore(info.ID)
	if err != nil {
		return err
	}
	if err := store.ClearScores(info.ID); err != nil {
		return err
	}
	fmt.Printf("Cleared high scores for %s (best was %s)\n", info.Title, humanize.Comma(int64(best)))
	return nil
}
