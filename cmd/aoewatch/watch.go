package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aoewatch/internal/admin"
	"aoewatch/internal/config"
	"aoewatch/internal/logging"
	"aoewatch/internal/tui"
	"aoewatch/internal/watch"
)

var (
	watchConfigPath  string
	watchSchemaPath  string
	watchStatePath   string
	watchHistoryFile string
	watchPrintOnly   bool
	watchInterval    time.Duration
	watchAdminAddr   string
	watchTUI         bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the watcher continuously",
	Long:  "watch repeats poll/diff/notify cycles on a fixed interval until interrupted, with an optional live terminal board and an optional status HTTP server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(watchConfigPath, watchSchemaPath)
		if err != nil {
			return err
		}

		if envInterval := os.Getenv("WATCH_INTERVAL"); envInterval != "" {
			d, err := time.ParseDuration(envInterval)
			if err != nil {
				return err
			}
			watchInterval = d
		}

		runner, lock, cleanup, err := buildRunner(cfg, watchStatePath, watchPrintOnly, watchHistoryFile)
		if err != nil {
			return err
		}
		defer cleanup()
		defer lock.Release()

		watcher := watch.NewWatcher(runner, watchInterval)

		log := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		if watchTUI {
			board := tui.NewBoard(cfg.Location())
			watcher.AddObserver(board)
			defer board.Close()
		}

		if watchAdminAddr != "" {
			srv := admin.NewServer(watcher)
			go func() {
				log.Info("status server listening", "addr", watchAdminAddr)
				if err := srv.Start(ctx, watchAdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("status server failed", "error", err)
				}
			}()
		}

		go watcher.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("watcher stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "config/watch.yaml", "Path to watcher configuration YAML")
	watchCmd.Flags().StringVar(&watchSchemaPath, "schema", "schemas/watch.cue", "Path to CUE schema file")
	watchCmd.Flags().StringVar(&watchStatePath, "state", "", "Path to snapshot file (overrides AOEWATCH_STATE and config)")
	watchCmd.Flags().StringVar(&watchHistoryFile, "history-file", "", "Path to append observation history (JSONL)")
	watchCmd.Flags().BoolVar(&watchPrintOnly, "print-only", false, "Print changes to STDOUT instead of sending to Telegram")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Minute, "Poll interval (e.g. 90s, 5m)")
	watchCmd.Flags().StringVar(&watchAdminAddr, "admin", "", "Status HTTP server address (e.g. :8080, empty to disable)")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "Render a live status board instead of log output")
}
