package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/havochq/havoc/pkg/cluster"
	"github.com/havochq/havoc/pkg/config"
	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/rollback/engine"
	"github.com/havochq/havoc/pkg/rollback/journal"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Inspect and execute journaled compensating actions",
}

var rollbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending and executed journal entries",
	RunE:  runRollbackList,
}

var rollbackExecuteCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute pending journal entries for a run, then purge them",
	Long: `Execute every pending compensating action for the given run,
regardless of the rollback.auto setting, and delete the journal entries
that remain afterwards.`,
	RunE: runRollbackExecute,
}

func init() {
	rollbackCmd.AddCommand(rollbackListCmd)
	rollbackCmd.AddCommand(rollbackExecuteCmd)

	for _, c := range []*cobra.Command{rollbackListCmd, rollbackExecuteCmd} {
		c.Flags().StringP("config", "f", "", "harness configuration file")
		c.Flags().String("versions-dir", "", "journal directory (overrides config)")
		c.Flags().String("run-uuid", "", "filter by run identifier")
		c.Flags().String("scenario-type", "", "filter by scenario type")
	}
	rollbackExecuteCmd.Flags().String("kubeconfig", "", "kubeconfig for the cluster under test")
	_ = rollbackExecuteCmd.MarkFlagRequired("run-uuid")
}

// versionsDirFromFlags resolves the journal directory from --versions-dir,
// the config file, or the built-in default, in that order.
func versionsDirFromFlags(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("versions-dir"); dir != "" {
		return dir, nil
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return "", err
		}
		return cfg.Rollback.VersionsDirectory, nil
	}
	return config.DefaultVersionsDirectory, nil
}

func runRollbackList(cmd *cobra.Command, args []string) error {
	log.Init(log.Config{Level: log.InfoLevel})
	versionsDir, err := versionsDirFromFlags(cmd)
	if err != nil {
		return err
	}
	runUUID, _ := cmd.Flags().GetString("run-uuid")
	scenarioType, _ := cmd.Flags().GetString("scenario-type")

	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Journal directory does not exist: %s\n", versionsDir)
			return nil
		}
		return fmt.Errorf("failed to list journal directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && journal.IsContextDir(e.Name(), runUUID) {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		fmt.Println("No rollback entries found")
		return nil
	}
	sort.Strings(dirs)

	fmt.Printf("%s/\n", versionsDir)
	for i, dir := range dirs {
		last := i == len(dirs)-1
		dirPrefix, filePrefix := "├── ", "│   "
		if last {
			dirPrefix, filePrefix = "└── ", "    "
		}
		fmt.Printf("%s%s/\n", dirPrefix, dir)

		files, err := os.ReadDir(filepath.Join(versionsDir, dir))
		if err != nil {
			// Per-subdirectory problems are reported inline and do not
			// abort the listing.
			fmt.Printf("%s└── [%v]\n", filePrefix, err)
			continue
		}
		var names []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if scenarioType != "" && !matchesScenario(f.Name(), scenarioType) {
				continue
			}
			names = append(names, f.Name())
		}
		sort.Strings(names)
		for j, name := range names {
			connector := "├── "
			if j == len(names)-1 {
				connector = "└── "
			}
			fmt.Printf("%s%s%s\n", filePrefix, connector, name)
		}
	}
	return nil
}

func matchesScenario(name, scenarioType string) bool {
	return len(name) > len(scenarioType) && name[:len(scenarioType)+1] == scenarioType+"_"
}

func runRollbackExecute(cmd *cobra.Command, args []string) error {
	log.Init(log.Config{Level: log.InfoLevel})
	versionsDir, err := versionsDirFromFlags(cmd)
	if err != nil {
		return err
	}
	runUUID, _ := cmd.Flags().GetString("run-uuid")
	scenarioType, _ := cmd.Flags().GetString("scenario-type")
	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")

	if scenarioType == "" {
		log.Warn("scenario-type not specified, executing all scenarios for the run")
	}

	cfg := &types.RollbackConfig{VersionsDirectory: versionsDir}
	eng := engine.New(cfg)
	tel := telemetry.NewHandle(cluster.NewKubectlClient(kubeconfig), nil)

	fmt.Printf("Executing rollback for run %s\n", runUUID)
	if err := eng.Execute(context.Background(), tel, runUUID, scenarioType, true); err != nil {
		return fmt.Errorf("rollback execution failed: %w", err)
	}
	if err := eng.Cleanup(runUUID, scenarioType); err != nil {
		return fmt.Errorf("rollback cleanup failed: %w", err)
	}
	fmt.Println("Rollback execution and cleanup completed")
	return nil
}
