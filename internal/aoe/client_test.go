package aoe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aoewatch/internal/status"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, time.Second)
	c.now = func() time.Time { return time.Unix(1000, 0) }
	return c
}

func TestFetchPlayerInMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("profile_ids"); got != "6446904" {
			t.Errorf("unexpected profile_ids %q", got)
		}
		w.Write([]byte(`{"matches":[{"matchId":123,"started":"2026-08-25T10:00:00Z","finished":null}]}`))
	})
	st, err := c.FetchPlayer(context.Background(), "Carpincho", 6446904)
	if err != nil {
		t.Fatalf("FetchPlayer: %v", err)
	}
	if st.Status != status.StatusInMatch {
		t.Fatalf("expected in_match, got %s", st.Status)
	}
	if st.MatchID == nil || *st.MatchID != "123" {
		t.Fatalf("expected match id 123, got %v", st.MatchID)
	}
	if !st.ObservedAt.Equal(time.Unix(1000, 0).UTC()) {
		t.Fatalf("unexpected ObservedAt %v", st.ObservedAt)
	}
}

func TestFetchPlayerFinished(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[{"matchId":456,"finished":"2026-08-25T12:30:00Z"}]}`))
	})
	st, err := c.FetchPlayer(context.Background(), "Nanox", 439001)
	if err != nil {
		t.Fatalf("FetchPlayer: %v", err)
	}
	if st.Status != status.StatusFinished {
		t.Fatalf("expected finished, got %s", st.Status)
	}
	if st.Finished == nil || !st.Finished.Equal(time.Date(2026, 8, 25, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected finish time %v", st.Finished)
	}
}

func TestFetchPlayerNoMatches(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[]}`))
	})
	st, err := c.FetchPlayer(context.Background(), "Dicopato", 255507)
	if err != nil {
		t.Fatalf("FetchPlayer: %v", err)
	}
	if st.Status != status.StatusNoMatches {
		t.Fatalf("expected no_matches, got %s", st.Status)
	}
	if st.MatchID != nil {
		t.Fatalf("expected nil match id, got %v", *st.MatchID)
	}
}

func TestFetchPlayerServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	if _, err := c.FetchPlayer(context.Background(), "p", 1); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestFetchPlayerBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	})
	if _, err := c.FetchPlayer(context.Background(), "p", 1); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
