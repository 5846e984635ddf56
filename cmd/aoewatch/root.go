package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aoewatch",
	Short: "AoE2 player status watcher",
	Long:  "aoewatch polls the aoe2companion API for tracked players, reports status changes to Telegram, and keeps a JSON snapshot of the last known statuses.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}
