package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List recorded simulation runs",
	Long: `List the most recent runs stored by 'castlepong simulate', or show one
run in full.

Examples:
  castlepong runs
  castlepong runs --limit 50
  castlepong runs 0b6f1c2e-7d0a-4c55-9a53-5f8c1b1d2e3f`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
}

func runRuns(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		r, err := store.RunByID(args[0])
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("no run with id %q", args[0])
		}
		printRun(r)
		return nil
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Try 'castlepong simulate'.")
		return nil
	}

	fmt.Printf("  %-8s  %-14s  %-10s  %-4s  %-5s  %s\n", "ID", "Game", "Score", "Wave", "Won", "When")
	fmt.Printf("  %-8s  %-14s  %-10s  %-4s  %-5s  %s\n", "--", "----", "-----", "----", "---", "----")
	for _, r := range runs {
		fmt.Printf("  %-8s  %-14s  %-10s  %-4d  %-5t  %s\n",
			r.ID[:min(8, len(r.ID))], r.GameID, humanize.Comma(int64(r.Score)), r.Wave, r.Won, humanize.Time(r.CreatedAt))
	}
	return nil
}

func printRun(r *storage.Run) {
	fmt.Printf("ID:      %s\n", r.ID)
	fmt.Printf("Game:    %s (seed %d)\n", r.GameID, r.Seed)
	fmt.Printf("Ticks:   %s\n", humanize.Comma(int64(r.Ticks)))
	fmt.Printf("Score:   %s, wave %d, won %t\n", humanize.Comma(int64(r.Score)), r.Wave, r.Won)
	fmt.Printf("Shots:   %s\n", humanize.Comma(int64(r.Shots)))
	fmt.Printf("Hash:    %016x\n", r.Hash)
	if r.ReplayPath != "" {
		fmt.Printf("Replay:  %s\n", r.ReplayPath)
	}
	fmt.Printf("When:    %s\n", humanize.Time(r.CreatedAt))
}
