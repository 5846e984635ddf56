// Response types for the aoe2companion match API
package aoe

import (
	"strconv"
	"time"

	"aoewatch/internal/status"
)

// matchesResponse is the relevant slice of /api/matches. Matches come
// newest first; only the most recent one drives the player status.
type matchesResponse struct {
	Matches []Match `json:"matches"`
}

// Match is a single match entry. Finished is null while the match is
// still running.
type Match struct {
	MatchID  int64      `json:"matchId"`
	Name     string     `json:"name"`
	Started  *time.Time `json:"started"`
	Finished *time.Time `json:"finished"`
}

// PlayerState is the freshly observed state of one tracked player.
type PlayerState struct {
	Name       string
	ProfileID  int64
	Status     string
	MatchID    *string
	Finished   *time.Time
	ObservedAt time.Time
}

// Record converts the observation into its persisted snapshot form.
func (p PlayerState) Record() status.Record {
	return status.Record{
		Status:     p.Status,
		MatchID:    p.MatchID,
		ObservedAt: p.ObservedAt,
	}
}

func stateFromMatches(name string, profileID int64, resp matchesResponse, observedAt time.Time) PlayerState {
	st := PlayerState{Name: name, ProfileID: profileID, ObservedAt: observedAt}
	if len(resp.Matches) == 0 {
		st.Status = status.StatusNoMatches
		return st
	}
	last := resp.Matches[0]
	id := strconv.FormatInt(last.MatchID, 10)
	st.MatchID = &id
	if last.Finished == nil {
		st.Status = status.StatusInMatch
		return st
	}
	st.Status = status.StatusFinished
	st.Finished = last.Finished
	return st
}
