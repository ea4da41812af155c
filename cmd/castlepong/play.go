package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/platform/tui"
	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game mode (default: siege).

Controls:
  Left/Right   - Bottom paddle
  A/D          - Top paddle (unlocks at 30 points)
  W/S          - Left paddle (unlocks at 100 points)
  Up/Down      - Right paddle (unlocks at 200 points)
  Space        - Bump every paddle
  P/Esc        - Pause
  B            - Back to menu (paused or game over)
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at wave level 1
  normal - Start at wave level 2
  hard   - Start at wave level 5
  fixed  - No progression, stays at config's initial level

Examples:
  castlepong play
  castlepong play siege_endless
  castlepong play --difficulty hard
  castlepong play --config ./my-siege.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

// terminalConfig builds a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Games still run without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "siege"
	if len(args) == 1 {
		gameID = args[0]
	}

	game, err := registry.Create(gameID)
	if errors.Is(err, registry.ErrUnknownGame) {
		return fmt.Errorf("%w, run 'castlepong list' to see the modes", err)
	}
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, terminalConfig(), logger); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
