package status

import (
	"testing"
	"time"
)

func rec(st string, match string) Record {
	r := Record{Status: st, ObservedAt: time.Unix(0, 0).UTC()}
	if match != "" {
		r.MatchID = &match
	}
	return r
}

func TestDiffIdentical(t *testing.T) {
	prev := Snapshot{"p1": rec(StatusInMatch, "m1"), "p2": rec(StatusNoMatches, "")}
	curr := prev.Clone()
	// A later observation of the same state must not count as a change.
	for k, v := range curr {
		v.ObservedAt = v.ObservedAt.Add(time.Hour)
		curr[k] = v
	}
	if got := Diff(prev, curr); len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}
}

func TestDiffAppeared(t *testing.T) {
	changes := Diff(Snapshot{}, Snapshot{"p1": rec(StatusInMatch, "m1")})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Player != "p1" || c.Kind != ChangeAppeared || c.Old != nil || c.New == nil {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestDiffDisappeared(t *testing.T) {
	changes := Diff(Snapshot{"p1": rec(StatusFinished, "m1")}, Snapshot{})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Player != "p1" || c.Kind != ChangeDisappeared || c.New != nil || c.Old == nil {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestDiffStatusUpdate(t *testing.T) {
	prev := Snapshot{"p1": rec("idle", "")}
	curr := Snapshot{"p1": rec(StatusInMatch, "m1")}
	changes := Diff(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Player != "p1" || c.Kind != ChangeUpdated {
		t.Fatalf("unexpected change: %+v", c)
	}
	if c.New.MatchID == nil || *c.New.MatchID != "m1" {
		t.Fatalf("expected new match id m1, got %+v", c.New)
	}
}

func TestDiffMatchIDChange(t *testing.T) {
	// Same status label but a new match still counts as a change.
	prev := Snapshot{"p1": rec(StatusFinished, "m1")}
	curr := Snapshot{"p1": rec(StatusFinished, "m2")}
	if got := Diff(prev, curr); len(got) != 1 || got[0].Kind != ChangeUpdated {
		t.Fatalf("expected one update, got %v", got)
	}
}

func TestDiffSortedByPlayer(t *testing.T) {
	prev := Snapshot{"zed": rec(StatusInMatch, "m1")}
	curr := Snapshot{"alf": rec(StatusInMatch, "m2"), "moe": rec(StatusNoMatches, "")}
	changes := Diff(prev, curr)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	order := []string{"alf", "moe", "zed"}
	for i, want := range order {
		if changes[i].Player != want {
			t.Fatalf("expected %s at %d, got %s", want, i, changes[i].Player)
		}
	}
}
