package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host castle pong over SSH",
	Long: `Serve castle pong to SSH clients. Every connection gets its own menu
and game; all of them share one high score table.

The host key is read from --host-key, or generated on first start at
~/.castlepong/host_key. --difficulty and --config apply to every session.

Examples:
  castlepong serve
  castlepong serve --ssh :2222 --idle-timeout 10m
  castlepong serve --host-key ./host_key --db ./scores.db

Then connect with:
  ssh -t localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Disconnect sessions idle for this long")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: flagIdleTimeout,
		TickRate:    flagFPS,
		Logger:      logger.WithPrefix("ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return server.ListenAndServe()
}
