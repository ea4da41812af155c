package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes",
	Long:  `List the registered game modes with the best score stored for each.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	games := registry.List()
	if len(games) == 0 {
		fmt.Fprintln(out, "No game modes registered.")
		return nil
	}

	best := map[string]string{}
	if store := openStore(); store != nil {
		defer store.Close()
		if stats, err := store.GetAllGamesStats(); err == nil {
			for id, st := range stats {
				best[id] = fmt.Sprintf("%s (wave %d)", humanize.Comma(int64(st.HighScore)), st.BestWave)
			}
		}
	}

	idW, titleW := len("MODE"), len("TITLE")
	for _, g := range games {
		idW = max(idW, len(g.ID))
		titleW = max(titleW, len(g.Title))
	}

	fmt.Fprintf(out, "%-*s  %-*s  %s\n", idW, "MODE", titleW, "TITLE", "BEST")
	for _, g := range games {
		b, ok := best[g.ID]
		if !ok {
			b = "-"
		}
		fmt.Fprintf(out, "%-*s  %-*s  %s\n", idW, g.ID, titleW, g.Title, b)
	}
	fmt.Fprintln(out, "\nStart one with 'castlepong play <mode>'.")
	return nil
}
