package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/havochq/havoc/pkg/config"
	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/store"
	"github.com/havochq/havoc/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded chaos runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().String("data-dir", config.DefaultDataDir, "harness data directory")
}

func runRuns(cmd *cobra.Command, args []string) error {
	log.Init(log.Config{Level: log.WarnLevel})
	dataDir, _ := cmd.Flags().GetString("data-dir")

	st, err := store.NewBoltStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open run-history store: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})

	for _, run := range runs {
		failed := 0
		rollbacks := 0
		for _, rec := range run.Scenarios {
			if rec.Verdict == types.VerdictFailure {
				failed++
			}
			rollbacks += rec.Rollbacks
		}
		fmt.Printf("%s  started=%s  scenarios=%d  failed=%d  rollbacks=%d\n",
			run.UUID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			len(run.Scenarios), failed, rollbacks)
	}
	return nil
}
