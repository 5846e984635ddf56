package status

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Lock is a best-effort guard against overlapping runs. The scheduler is
// assumed to never overlap invocations; the lock only catches the case
// where that assumption breaks. A lock file older than the TTL is treated
// as left behind by a crashed run and replaced.
type Lock struct {
	path string
	ttl  time.Duration
}

type lockInfo struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// NewLock returns a lock backed by the given file path.
func NewLock(path string, ttl time.Duration) *Lock {
	return &Lock{path: path, ttl: ttl}
}

// Acquire takes the lock, replacing a stale one if needed.
func (l *Lock) Acquire() error {
	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("create lock %s: %w", l.path, err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l.tryCreate()
		}
		return fmt.Errorf("read lock %s: %w", l.path, err)
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err == nil && time.Since(info.AcquiredAt) < l.ttl {
		return fmt.Errorf("another run holds %s (pid %d since %s)", l.path, info.PID, info.AcquiredAt.Format(time.RFC3339))
	}

	// Stale or unreadable lock file.
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale lock %s: %w", l.path, err)
	}
	if err := l.tryCreate(); err != nil {
		return fmt.Errorf("recreate lock %s: %w", l.path, err)
	}
	return nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

func (l *Lock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	info := lockInfo{PID: os.Getpid(), AcquiredAt: time.Now().UTC()}
	return json.NewEncoder(f).Encode(info)
}
