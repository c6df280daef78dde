package cmd

import (
	"fmt"

	"github.com/encodeous/nlsrcore/core"
	"github.com/encodeous/nlsrcore/state"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Hello Protocol and cost core",
	Long: `Loads node and central config, validates them, and starts the Hello
engine and load-aware cost calculator. This binary alone has no Face/
Signer/Validator/LSDB/RoutingTable adapter compiled in -- those are
provided by an embedding program via core.Collaborators, since the full
NDN face/transport layer and routing-table algorithm are out of scope for
this core (see DESIGN.md). Invoking this command directly always reports
that boundary; it exists to exercise config loading, validation, and
logging setup end to end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		state.DebugLogHello, _ = cmd.Flags().GetBool("debug-hello")
		state.DebugLogCost, _ = cmd.Flags().GetBool("debug-cost")

		_, _, err := core.Bootstrap(nodeConfigPath, centralConfigPath, logPath, verbose, core.Collaborators{})
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return nil
	},
	GroupID: "ny",
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("verbose", "v", false, "verbose (debug-level) logging")
	runCmd.Flags().StringVarP(&logPath, "log-path", "l", "", "additionally write logs to this file")
	runCmd.Flags().Bool("debug-hello", false, "log per-interest Hello probe detail beyond --verbose")
	runCmd.Flags().Bool("debug-cost", false, "log per-query load-aware cost adjustment beyond --verbose")
}
