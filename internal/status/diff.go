package status

import "sort"

// ChangeKind classifies how a player's status differs between snapshots.
type ChangeKind string

const (
	ChangeAppeared    ChangeKind = "appeared"
	ChangeDisappeared ChangeKind = "disappeared"
	ChangeUpdated     ChangeKind = "updated"
)

// Change describes one player whose status differs between two snapshots.
type Change struct {
	Player string
	Kind   ChangeKind
	Old    *Record
	New    *Record
}

// Diff compares a previous and a current snapshot and returns the changes,
// sorted by player name. Players present only in curr are "appeared",
// players present only in prev are "disappeared". Diff performs no I/O.
func Diff(prev, curr Snapshot) []Change {
	var changes []Change
	for name, rec := range curr {
		rec := rec
		old, ok := prev[name]
		if !ok {
			changes = append(changes, Change{Player: name, Kind: ChangeAppeared, New: &rec})
			continue
		}
		if !old.Equal(rec) {
			old := old
			changes = append(changes, Change{Player: name, Kind: ChangeUpdated, Old: &old, New: &rec})
		}
	}
	for name, rec := range prev {
		if _, ok := curr[name]; !ok {
			rec := rec
			changes = append(changes, Change{Player: name, Kind: ChangeDisappeared, Old: &rec})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Player < changes[j].Player })
	return changes
}
