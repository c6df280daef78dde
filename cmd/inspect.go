package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/nlsrcore/core"
	"github.com/encodeous/nlsrcore/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Print the configured adjacency table",
	Long: `Loads node-config and prints the configured adjacency table (every
neighbour starts INACTIVE with zero counters, since this reads
configuration rather than a live process -- see DESIGN.md).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.ReadFile(nodeConfigPath)
		if err != nil {
			return fmt.Errorf("read node config: %w", err)
		}
		var cfg state.LocalCfg
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return fmt.Errorf("parse node config: %w", err)
		}

		snap := core.SnapshotFromConfig(&cfg)
		out, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
	GroupID: "ny",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
