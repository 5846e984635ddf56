// Notifier interfaces and fan-out for status change alerts
package notify

import (
	"context"

	"aoewatch/internal/aoe"
	"aoewatch/internal/status"
)

// Event couples a detected change with the freshly fetched player state.
// State is nil for disappeared players and for records carried forward
// after a fetch failure.
type Event struct {
	Change status.Change
	State  *aoe.PlayerState
}

// Notifier delivers change alerts to one destination.
type Notifier interface {
	Notify(ctx context.Context, events []Event) error
}

// Multi fans events out to several notifiers. Every notifier is attempted;
// the first error is returned.
type Multi struct {
	notifiers []Notifier
}

// NewMulti creates a fan-out notifier. Nil entries are skipped.
func NewMulti(ns ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range ns {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify implements Notifier.
func (m *Multi) Notify(ctx context.Context, events []Event) error {
	var first error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, events); err != nil && first == nil {
			first = err
		}
	}
	return first
}
