package main

import (
	"fmt"
	"os"
	"time"

	"aoewatch/internal/history"
	"aoewatch/internal/notify"
)

// Environment variables for Telegram delivery and the history sink.
const (
	envBotToken         = "TELEGRAM_BOT_TOKEN"
	envChatID           = "TELEGRAM_CHAT_ID"
	envStateFile        = "AOEWATCH_STATE"
	envGreptimeEndpoint = "GREPTIMEDB_ENDPOINT"
	envGreptimeTable    = "GREPTIMEDB_TABLE"
)

// newNotifier builds the delivery path. In print-only mode changes go to
// STDOUT; otherwise Telegram credentials are required and their absence
// is a configuration error, caught before any network activity.
func newNotifier(printOnly bool, loc *time.Location, timeout time.Duration) (notify.Notifier, error) {
	if printOnly {
		return &notify.Stdout{Location: loc}, nil
	}
	token := os.Getenv(envBotToken)
	chat := os.Getenv(envChatID)
	if token == "" || chat == "" {
		return nil, fmt.Errorf("%s and %s must be set (or use --print-only)", envBotToken, envChatID)
	}
	return notify.NewTelegram(token, chat, timeout, loc)
}

// newHistoryWriter assembles the optional observation sinks: a JSONL file
// when a path is given, GreptimeDB when GREPTIMEDB_ENDPOINT is set. The
// returned cleanup closes any files.
func newHistoryWriter(filePath string) (history.Writer, func(), error) {
	cleanup := func() {}
	var writers []history.Writer

	if filePath != "" {
		fw, err := history.NewFileWriter(filePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open history file: %w", err)
		}
		writers = append(writers, fw)
		cleanup = func() { fw.Close() }
	}
	if endpoint := os.Getenv(envGreptimeEndpoint); endpoint != "" {
		gw, err := history.NewGreptimeWriter(endpoint, "public", os.Getenv(envGreptimeTable))
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init greptime writer: %w", err)
		}
		writers = append(writers, gw)
	}

	switch len(writers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return writers[0], cleanup, nil
	default:
		return history.NewMultiWriter(writers...), cleanup, nil
	}
}
