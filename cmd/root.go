// Package cmd is the CLI surface: a cobra root command with a run
// subcommand (loads config, wires collaborators, drives the executor) and
// an inspect subcommand (dumps adjacency/counter state).
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	nodeConfigPath    string
	centralConfigPath string
	logPath           string
)

var rootCmd = &cobra.Command{
	Use:   "nlsrcore",
	Short: "NLSR-style Hello Protocol and link-cost core",
	Long: `nlsrcore is the neighbor-liveness (Hello Protocol) and load-aware
link-cost core of a named-data network link-state routing daemon. It owns
adjacency status tracking and per-neighbour cost adjustment; the face/
transport layer, signing, validation, LSDB, and routing table are supplied
by an embedding program.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "ny", Title: "Router Commands"})
	rootCmd.PersistentFlags().StringVarP(&nodeConfigPath, "node-config", "n", "node.yaml", "node-specific config")
	rootCmd.PersistentFlags().StringVarP(&centralConfigPath, "central-config", "c", "central.yaml", "network-wide config")
}
