package notify

import (
	"fmt"
	"time"

	"aoewatch/internal/status"
)

const finishedTimeLayout = "15:04 on 2006-01-02"

// Describe renders one event as a player name and a message body. Keeping
// the name separate lets markup-aware notifiers style it.
func Describe(e Event, loc *time.Location) (name, body string) {
	if loc == nil {
		loc = time.UTC
	}
	name = e.Change.Player

	if e.Change.Kind == status.ChangeDisappeared {
		return name, "is no longer being watched"
	}

	rec := e.Change.New
	if rec == nil {
		return name, "has an unknown status"
	}
	switch rec.Status {
	case status.StatusInMatch:
		if rec.MatchID != nil {
			return name, fmt.Sprintf("is playing now (match %s)", *rec.MatchID)
		}
		return name, "is playing now"
	case status.StatusFinished:
		if e.State != nil && e.State.Finished != nil {
			return name, fmt.Sprintf("finished playing at %s", e.State.Finished.In(loc).Format(finishedTimeLayout))
		}
		if rec.MatchID != nil {
			return name, fmt.Sprintf("finished playing (match %s)", *rec.MatchID)
		}
		return name, "finished playing"
	case status.StatusNoMatches:
		return name, "has no recent matches"
	default:
		return name, fmt.Sprintf("changed status to %s", rec.Status)
	}
}

// Text renders one event as a plain line.
func Text(e Event, loc *time.Location) string {
	name, body := Describe(e, loc)
	return name + " " + body
}
