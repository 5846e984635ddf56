// Runner orchestrating one poll/diff/notify/persist cycle
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"aoewatch/internal/aoe"
	"aoewatch/internal/config"
	"aoewatch/internal/history"
	"aoewatch/internal/logging"
	"aoewatch/internal/notify"
	"aoewatch/internal/status"
)

// Poller fetches the current state of one player.
type Poller interface {
	FetchPlayer(ctx context.Context, name string, profileID int64) (aoe.PlayerState, error)
}

// Store persists the snapshot between runs.
type Store interface {
	Load() (status.Snapshot, error)
	Save(status.Snapshot) error
}

// FetchError records a per-player fetch failure. Fetch failures never
// abort the run; the player's previous record is carried forward.
type FetchError struct {
	Player string
	Err    error
}

// Report summarizes one completed cycle.
type Report struct {
	RunID       string
	Started     time.Time
	Fetched     map[string]aoe.PlayerState
	FetchErrors []FetchError
	Snapshot    status.Snapshot
	Changes     []status.Change
	Notified    int
}

// Runner executes run-to-completion cycles. The store is an explicit
// handle, never package state, so cycles stay unit-testable.
type Runner struct {
	cfg      *config.WatchConfig
	poller   Poller
	store    Store
	notifier notify.Notifier
	history  history.Writer
}

// NewRunner wires a runner. notifier and hist may be nil.
func NewRunner(cfg *config.WatchConfig, poller Poller, store Store, notifier notify.Notifier, hist history.Writer) *Runner {
	return &Runner{cfg: cfg, poller: poller, store: store, notifier: notifier, history: hist}
}

// RunOnce performs one cycle: load snapshot, fetch all players with
// bounded parallelism, merge, diff, notify, save, log history. Fetch and
// delivery failures are non-fatal; load and save failures are.
func (r *Runner) RunOnce(ctx context.Context) (*Report, error) {
	log := logging.FromContext(ctx)
	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now().UTC(),
	}

	prev, err := r.store.Load()
	if err != nil {
		return report, fmt.Errorf("load snapshot: %w", err)
	}

	report.Fetched, report.FetchErrors = r.fetchAll(ctx)
	for _, fe := range report.FetchErrors {
		log.Warn("fetch failed", "run_id", report.RunID, "player", fe.Player, "error", fe.Err)
	}

	// Convergent merge by player name: fetched players overwrite, players
	// with a failed fetch keep their previous record, players removed from
	// the config drop out.
	curr := make(status.Snapshot, len(r.cfg.Players))
	for _, p := range r.cfg.Players {
		if st, ok := report.Fetched[p.Name]; ok {
			curr[p.Name] = st.Record()
			continue
		}
		if old, ok := prev[p.Name]; ok {
			curr[p.Name] = old
		}
	}
	report.Snapshot = curr
	report.Changes = status.Diff(prev, curr)

	if len(report.Changes) == 0 {
		log.Info("no status changes", "run_id", report.RunID, "players", len(curr))
	} else if r.notifier != nil {
		events := r.events(report)
		if err := r.notifier.Notify(ctx, events); err != nil {
			log.Warn("notification delivery failed", "run_id", report.RunID, "error", err)
		} else {
			report.Notified = len(events)
		}
	}

	if err := r.store.Save(curr); err != nil {
		return report, fmt.Errorf("persist snapshot: %w", err)
	}

	r.writeHistory(ctx, report)
	log.Info("run complete",
		"run_id", report.RunID,
		"fetched", len(report.Fetched),
		"fetch_errors", len(report.FetchErrors),
		"changes", len(report.Changes),
		"notified", report.Notified)
	return report, nil
}

// fetchAll polls every configured player with bounded parallelism.
// Result order must not influence the snapshot, so results land in a map
// keyed by player name.
func (r *Runner) fetchAll(ctx context.Context) (map[string]aoe.PlayerState, []FetchError) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched = make(map[string]aoe.PlayerState, len(r.cfg.Players))
		errs    []FetchError
	)
	sem := make(chan struct{}, r.cfg.FetchParallelism)

	for _, p := range r.cfg.Players {
		p := p
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			st, err := r.poller.FetchPlayer(ctx, p.Name, p.ProfileID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, FetchError{Player: p.Name, Err: err})
				return
			}
			fetched[p.Name] = st
		}()
	}
	wg.Wait()
	return fetched, errs
}

func (r *Runner) events(report *Report) []notify.Event {
	events := make([]notify.Event, 0, len(report.Changes))
	for _, c := range report.Changes {
		e := notify.Event{Change: c}
		if st, ok := report.Fetched[c.Player]; ok {
			st := st
			e.State = &st
		}
		events = append(events, e)
	}
	return events
}

// writeHistory emits one observation row per fetched player. History is
// best-effort; failures are logged and never fail the run.
func (r *Runner) writeHistory(ctx context.Context, report *Report) {
	if r.history == nil || len(report.Fetched) == 0 {
		return
	}
	changed := make(map[string]struct{}, len(report.Changes))
	for _, c := range report.Changes {
		changed[c.Player] = struct{}{}
	}
	rows := make([]history.Row, 0, len(report.Fetched))
	for name, st := range report.Fetched {
		row := history.Row{
			RunID:     report.RunID,
			Player:    name,
			Status:    st.Status,
			Timestamp: st.ObservedAt,
		}
		if st.MatchID != nil {
			row.MatchID = *st.MatchID
		}
		_, row.Changed = changed[name]
		rows = append(rows, row)
	}
	if err := writeRows(r.history, rows); err != nil {
		logging.FromContext(ctx).Warn("history write failed", "run_id", report.RunID, "error", err)
	}
}

// batchWriter mirrors the optional batch interface of history writers.
type batchWriter interface {
	WriteBatch([]history.Row) error
}

func writeRows(w history.Writer, rows []history.Row) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
