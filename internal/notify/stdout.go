package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Stdout prints change alerts as plain lines. Used by --print-only mode.
type Stdout struct {
	Out      io.Writer
	Location *time.Location
}

// Notify implements Notifier.
func (s *Stdout) Notify(_ context.Context, events []Event) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	for _, e := range events {
		fmt.Fprintln(out, Text(e, s.Location))
	}
	return nil
}
