package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/videobydak/castle-pong/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default config or its JSON schema",
	Long: `Inspect the siege configuration.

Copy the default to ~/.castlepong/configs/siege.yaml (or pass --config) and
edit it; keys left out keep their defaults.

Examples:
  castlepong config dump > ~/.castlepong/configs/siege.yaml
  castlepong config schema > siege.schema.json`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the default siege config as YAML",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, err := os.Stdout.Write(config.GetDefaultYAML("siege"))
		return err
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the siege config",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		out, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	configCmd.AddCommand(configDumpCmd)
	configCmd.AddCommand(configSchemaCmd)
}
