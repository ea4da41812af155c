package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/games/castle"
	"github.com/videobydak/castle-pong/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Verify a recorded run",
	Long: `Play back a replay file written by 'castlepong simulate --record' and
check that the final state matches the recording. A mismatch means the
simulation or its config changed since the file was written.

The run is replayed with the current --config and --difficulty, which must
match the ones used when recording.

Examples:
  castlepong replay ./seed7.replay`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

// errReplayMismatch is returned when a replay ends in a different state.
var errReplayMismatch = errors.New("replay diverged from the recording")

func runReplay(cmd *cobra.Command, args []string) error {
	rec, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	game, err := headlessGame(rec.Game, rec.Seed, rec.TickRate)
	if err != nil {
		return err
	}

	logger.Info("replaying", "id", rec.ID, "game", rec.Game, "seed", rec.Seed, "ticks", rec.Ticks())
	res, err := castle.Run(cmd.Context(), game, rec.Ticks(), castle.FromReplay(rec), nil)
	if err != nil {
		return err
	}

	printResult(rec.Game, rec.Seed, res)
	if res.Hash != rec.FinalHash || res.Score != rec.Score || res.Wave != rec.Wave {
		logger.Error("replay mismatch",
			"want_hash", fmt.Sprintf("%016x", rec.FinalHash), "got_hash", fmt.Sprintf("%016x", res.Hash),
			"want_score", rec.Score, "got_score", res.Score,
		)
		return errReplayMismatch
	}
	fmt.Println("Replay verified.")
	return nil
}
