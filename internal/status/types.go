// Snapshot types for last-known player statuses
package status

import "time"

// Player status labels derived from the match API.
const (
	StatusInMatch   = "in_match"
	StatusFinished  = "finished"
	StatusNoMatches = "no_matches"
	StatusUnknown   = "unknown"
)

// Record is the persisted status of one tracked player.
type Record struct {
	Status     string    `json:"status"`
	MatchID    *string   `json:"match_id"`
	ObservedAt time.Time `json:"observed_at"`
}

// Equal reports whether two records describe the same player state.
// ObservedAt moves on every poll and is deliberately ignored.
func (r Record) Equal(o Record) bool {
	if r.Status != o.Status {
		return false
	}
	if (r.MatchID == nil) != (o.MatchID == nil) {
		return false
	}
	if r.MatchID != nil && *r.MatchID != *o.MatchID {
		return false
	}
	return true
}

// Snapshot maps player name to last observed status record.
type Snapshot map[string]Record

// Clone returns a shallow copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
