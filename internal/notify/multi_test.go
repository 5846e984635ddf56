package notify

import (
	"context"
	"errors"
	"testing"

	"aoewatch/internal/status"
)

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(context.Context, []Event) error {
	s.calls++
	return s.err
}

func TestMultiNotifiesAll(t *testing.T) {
	a, b := &stubNotifier{}, &stubNotifier{}
	m := NewMulti(a, nil, b)
	events := []Event{{Change: status.Change{Player: "p1", Kind: status.ChangeAppeared}}}
	if err := m.Notify(context.Background(), events); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected both notifiers called, got %d and %d", a.calls, b.calls)
	}
}

func TestMultiKeepsFirstErrorButContinues(t *testing.T) {
	errA := errors.New("a failed")
	a := &stubNotifier{err: errA}
	b := &stubNotifier{err: errors.New("b failed")}
	m := NewMulti(a, b)
	err := m.Notify(context.Background(), nil)
	if !errors.Is(err, errA) {
		t.Fatalf("expected first error, got %v", err)
	}
	if b.calls != 1 {
		t.Fatalf("expected later notifier still called")
	}
}
