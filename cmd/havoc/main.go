package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Scenario plugins register themselves and their rollback action
	// kinds via init().
	_ "github.com/havochq/havoc/pkg/scenario/namespace"
	_ "github.com/havochq/havoc/pkg/scenario/netfilter"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "havoc",
	Short: "Havoc - chaos harness with a durable rollback journal",
	Long: `Havoc injects destructive actions into Kubernetes clusters and
measures cluster health during and after the fault.

Every destructive step a scenario takes is journaled with a compensating
action that survives process crashes and operator interruption, and can
be executed later with 'havoc rollback execute'.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Havoc version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(runsCmd)
}
