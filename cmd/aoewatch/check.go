package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aoewatch/internal/aoe"
	"aoewatch/internal/config"
	"aoewatch/internal/logging"
	"aoewatch/internal/notify"
	"aoewatch/internal/status"
	"aoewatch/internal/watch"
)

// lockTTL bounds how long a crashed run can block the next one.
const lockTTL = 15 * time.Minute

var (
	checkConfigPath  string
	checkSchemaPath  string
	checkStatePath   string
	checkHistoryFile string
	checkPrintOnly   bool
	checkTimeout     time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one poll/diff/notify cycle",
	Long:  "check fetches the current status of every tracked player, notifies about changes since the stored snapshot, and rewrites the snapshot. Built for cron-style invocation: exit 0 on a completed run, non-zero on configuration or persistence failure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(checkConfigPath, checkSchemaPath)
		if err != nil {
			return err
		}

		runner, lock, cleanup, err := buildRunner(cfg, checkStatePath, checkPrintOnly, checkHistoryFile)
		if err != nil {
			return err
		}
		defer cleanup()
		defer lock.Release()

		ctx := logging.NewContext(context.Background(), logging.New())
		ctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		_, err = runner.RunOnce(ctx)
		return err
	},
}

// buildRunner wires store, lock, poller, notifier, and history sinks from
// config, flags, and environment. Shared by check and watch.
func buildRunner(cfg *config.WatchConfig, statePath string, printOnly bool, historyFile string) (*watch.Runner, *status.Lock, func(), error) {
	if statePath == "" {
		statePath = os.Getenv(envStateFile)
	}
	if statePath == "" {
		statePath = cfg.StateFile
	}

	lock := status.NewLock(statePath+".lock", lockTTL)
	if err := lock.Acquire(); err != nil {
		return nil, nil, nil, err
	}

	notifier, err := newNotifier(printOnly, cfg.Location(), cfg.Timeout())
	if err != nil {
		lock.Release()
		return nil, nil, nil, err
	}
	hist, cleanup, err := newHistoryWriter(historyFile)
	if err != nil {
		lock.Release()
		return nil, nil, nil, err
	}

	client := aoe.NewClient(cfg.APIBaseURL, cfg.Timeout())
	store := status.NewStore(statePath)
	runner := watch.NewRunner(cfg, client, store, notify.NewMulti(notifier), hist)
	return runner, lock, cleanup, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "config/watch.yaml", "Path to watcher configuration YAML")
	checkCmd.Flags().StringVar(&checkSchemaPath, "schema", "schemas/watch.cue", "Path to CUE schema file")
	checkCmd.Flags().StringVar(&checkStatePath, "state", "", "Path to snapshot file (overrides AOEWATCH_STATE and config)")
	checkCmd.Flags().StringVar(&checkHistoryFile, "history-file", "", "Path to append observation history (JSONL)")
	checkCmd.Flags().BoolVar(&checkPrintOnly, "print-only", false, "Print changes to STDOUT instead of sending to Telegram")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "Overall run timeout")
}
