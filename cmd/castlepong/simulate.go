package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/games/castle"
	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/replay"
	"github.com/videobydak/castle-pong/internal/storage"
)

var (
	flagSimGame   string
	flagSimTicks  int
	flagSimRecord string
	flagSimSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless game driven by the autopilot",
	Long: `Run a game without a terminal, with every unlocked paddle driven by the
autopilot. The run stops when the wall falls, the campaign is won or the
tick budget runs out.

With --record the inputs are written to a replay file that 'castlepong replay'
can verify. Runs are stored in the database unless --save=false.

Examples:
  castlepong simulate --seed 42
  castlepong simulate --game siege_endless --ticks 100000
  castlepong simulate --seed 7 --record ./seed7.replay`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimGame, "game", "siege", "Game mode to simulate")
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 36000, "Maximum ticks to run")
	simulateCmd.Flags().StringVar(&flagSimRecord, "record", "", "Write a replay file to this path")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", true, "Store the run in the database")
}

// headlessGame creates and resets a castle game for a run without a screen.
func headlessGame(gameID string, seed int64, tickRate int) (*castle.Game, error) {
	g, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}
	game, ok := g.(*castle.Game)
	if !ok {
		return nil, fmt.Errorf("game %q cannot run headless", gameID)
	}
	game.Reset(core.RuntimeConfig{
		ScreenW:  120,
		ScreenH:  40,
		TickRate: tickRate,
		Seed:     seed,
	})
	return game, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if flagSimTicks <= 0 {
		return fmt.Errorf("--ticks must be positive, got %d", flagSimTicks)
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	game, err := headlessGame(flagSimGame, seed, flagFPS)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	var rec *replay.Replay
	if flagSimRecord != "" {
		rec = replay.New(id, game.ID(), seed, flagFPS)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("simulating", "game", game.ID(), "seed", seed, "ticks", flagSimTicks)
	start := time.Now()
	res, err := castle.Run(ctx, game, flagSimTicks, castle.Autopilot, rec)
	if err != nil && ctx.Err() == nil {
		return err
	}
	if err != nil {
		logger.Warn("simulation interrupted", "ticks", res.Ticks)
	}
	logger.Debug("simulation finished", "elapsed", time.Since(start))

	replayPath := ""
	if rec != nil {
		replayPath, err = filepath.Abs(flagSimRecord)
		if err != nil {
			return err
		}
		if err := rec.Save(replayPath); err != nil {
			return err
		}
		logger.Info("replay written", "path", replayPath, "ticks", rec.Ticks())
	}

	if flagSimSave {
		saveRun(storage.Run{
			ID:         id,
			GameID:     game.ID(),
			Seed:       seed,
			Ticks:      res.Ticks,
			Score:      res.Score,
			Wave:       res.Wave,
			Won:        res.Won,
			Shots:      res.Shots,
			Hash:       res.Hash,
			ReplayPath: replayPath,
		})
	}

	printResult(game.ID(), seed, res)
	return nil
}

func saveRun(r storage.Run) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("run not stored", "error", err)
		return
	}
	defer store.Close()
	if _, err := store.SaveRun(r); err != nil {
		logger.Warn("run not stored", "error", err)
	}
}

func printResult(gameID string, seed int64, res castle.RunResult) {
	outcome := "time up"
	switch {
	case res.Won:
		outcome = "castle taken"
	case res.Over:
		outcome = "wall destroyed"
	}
	seconds := time.Duration(res.Ticks) * time.Second / time.Duration(flagFPS)

	fmt.Printf("Game:    %s (seed %d)\n", gameID, seed)
	fmt.Printf("Outcome: %s after %s ticks (%s of play)\n", outcome, humanize.Comma(int64(res.Ticks)), seconds)
	fmt.Printf("Score:   %s, wave %d\n", humanize.Comma(int64(res.Score)), res.Wave)
	fmt.Printf("Shots:   %s\n", humanize.Comma(int64(res.Shots)))
	fmt.Printf("Hash:    %016x\n", res.Hash)
}
