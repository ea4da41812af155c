// castlepong is a terminal siege game: cannons in a castle fire at the
// player's wall and up to four paddles knock the shots back.
//
// Usage:
//
//	castlepong list              - List available game modes
//	castlepong play [game]       - Play (default: siege)
//	castlepong menu              - Start menu to pick a mode interactively
//	castlepong serve             - Start SSH server for remote play
//	castlepong scores <game>     - Show high scores for a game
//	castlepong simulate          - Run a headless autopilot game
//	castlepong replay <file>     - Verify a recorded run
//	castlepong runs              - List recorded runs
//	castlepong config dump       - Print the default config
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.castlepong/scores.db)
//	--config <path>      - Custom siege config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file (interactive commands log nowhere otherwise)
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/games/castle"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

// logger is set up by the root command before any subcommand runs.
var logger *log.Logger

// logOut is the open --log-file, closed after the command finishes.
var logOut *os.File

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if logOut != nil {
		logOut.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "castlepong",
	Short: "Castle Pong - defend your wall against a castle full of cannons",
	Long: `Castle Pong is a terminal arcade game. A castle in the middle of the
arena fires cannonballs at your wall; paddles on every side knock them back
into the castle until it falls.

Available commands:
  list      - Show all game modes
  play      - Play a game directly
  menu      - Interactive game picker menu
  serve     - Start SSH server for remote play
  scores    - View high scores
  simulate  - Run a headless autopilot game
  replay    - Verify a recorded run
  runs      - List recorded runs
  config    - Print the default config or its JSON schema

Examples:
  castlepong play
  castlepong play siege_endless --difficulty hard
  castlepong menu
  castlepong simulate --seed 42 --ticks 20000 --record run.replay
  castlepong replay run.replay`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.castlepong/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom siege config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// interactive commands own the terminal, so they only log to --log-file.
var interactive = map[string]bool{"play": true, "menu": true}

// setup builds the root logger and hands the game flags to the castle package.
func setup(cmd *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	switch flagDifficulty {
	case "", "easy", "normal", "hard", "fixed":
	default:
		return fmt.Errorf("--difficulty: unknown preset %q", flagDifficulty)
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		//#nosec G304 -- path comes from the command line
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("--log-file: %w", err)
		}
		logOut = f
		out = f
	case interactive[cmd.Name()]:
		out = io.Discard
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "castlepong",
		Level:           level,
	})

	castle.SetConfigPath(flagConfig)
	castle.SetDifficultyPreset(flagDifficulty)
	castle.SetLogger(logger.WithPrefix("game"))
	return nil
}
