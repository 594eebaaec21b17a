package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/havochq/havoc/pkg/cluster"
	"github.com/havochq/havoc/pkg/config"
	"github.com/havochq/havoc/pkg/events"
	"github.com/havochq/havoc/pkg/log"
	"github.com/havochq/havoc/pkg/metrics"
	"github.com/havochq/havoc/pkg/runner"
	"github.com/havochq/havoc/pkg/store"
	"github.com/havochq/havoc/pkg/telemetry"
	"github.com/havochq/havoc/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the configured chaos scenarios",
	Long: `Run every scenario listed in the configuration file under a single
run UUID. Compensating actions are journaled as scenarios progress; on
scenario failure (with rollback.auto enabled) or on SIGINT/SIGTERM/SIGHUP
they are executed before the process exits.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("config", "f", "", "harness configuration file (required)")
	runCmd.Flags().String("run-uuid", "", "run identifier (generated when omitted)")
	runCmd.Flags().String("kubeconfig", "", "kubeconfig for the cluster under test")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	runUUID, _ := cmd.Flags().GetString("run-uuid")
	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.JSONLogs})

	if runUUID == "" {
		runUUID = uuid.NewString()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open run-history store: %w", err)
	}
	defer st.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	go consoleSink(broker)

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
		logger := log.WithComponent("main")
		logger.Info().
			Str("addr", cfg.MetricsAddr).
			Msg("metrics endpoint started")
	}

	tel := telemetry.NewHandle(cluster.NewKubectlClient(kubeconfig), broker)
	r := runner.New(cfg.RollbackConfig(), st, broker)

	fmt.Printf("Starting chaos run %s (%d scenarios)\n", runUUID, len(cfg.Scenarios))
	run, err := r.RunAll(context.Background(), cfg.Scenarios, runUUID, tel)
	if err != nil {
		return err
	}

	failed := 0
	for _, rec := range run.Scenarios {
		marker := "✓"
		if rec.Verdict != types.VerdictSuccess {
			marker = "✗"
			failed++
		}
		fmt.Printf("%s %-20s %-8s rollbacks=%d %s\n",
			marker, rec.ScenarioType, rec.Verdict, rec.Rollbacks, rec.Error)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(run.Scenarios))
	}
	fmt.Println("All scenarios succeeded")
	return nil
}

// consoleSink mirrors broker events to the log until the broker stops.
func consoleSink(broker *events.Broker) {
	sub := broker.Subscribe()
	for ev := range sub {
		logger := log.WithComponent("events")
		logger.Info().
			Str("type", string(ev.Type)).
			Fields(map[string]interface{}{"metadata": ev.Metadata}).
			Msg(ev.Message)
	}
}
