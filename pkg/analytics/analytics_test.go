package analytics

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	if err := st.Migrate(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return st
}

func countClickEvents(t *testing.T, st *store.Store) int {
	t.Helper()
	var count int
	if err := st.DB().QueryRow("SELECT COUNT(*) FROM click_events").Scan(&count); err != nil {
		t.Fatalf("counting click events: %v", err)
	}
	return count
}

func TestRecorderPersists(t *testing.T) {
	st := newTestStore(t)
	r := NewRecorder(st, nil, 16)

	r.Record("derby", "post", 1)
	r.Record("son", "player", 10)
	r.Close()

	if got := countClickEvents(t, st); got != 2 {
		t.Errorf("expected 2 persisted events, got %d", got)
	}
}

func TestRecorderBroadcasts(t *testing.T) {
	st := newTestStore(t)
	hub := NewHub(4)
	r := NewRecorder(st, hub, 16)

	_, events := hub.Register()

	r.Record("derby", "team", 1)

	select {
	case event := <-events:
		if event.ResultKind != "team" || event.ResultID != 1 {
			t.Errorf("unexpected event: %+v", event)
		}
		if event.ID == "" {
			t.Error("expected a generated event id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	r.Close()
}

func TestHubFanOutAndDrop(t *testing.T) {
	hub := NewHub(1)

	fastID, fast := hub.Register()
	slowID, slow := hub.Register()
	defer hub.Unregister(fastID)
	defer hub.Unregister(slowID)

	if hub.Size() != 2 {
		t.Fatalf("expected 2 listeners, got %d", hub.Size())
	}

	// Two broadcasts against a buffer of one: the second is dropped for
	// listeners that have not consumed the first.
	hub.Broadcast(ClickEvent{ID: "a"})
	hub.Broadcast(ClickEvent{ID: "b"})

	if event := <-fast; event.ID != "a" {
		t.Errorf("expected first event, got %q", event.ID)
	}
	select {
	case event := <-fast:
		t.Errorf("expected second event dropped, got %q", event.ID)
	default:
	}

	if event := <-slow; event.ID != "a" {
		t.Errorf("slow listener should still get the first event, got %q", event.ID)
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub(0)
	id, ch := hub.Register()

	hub.Unregister(id)
	hub.Unregister(id)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unregister")
	}
	if hub.Size() != 0 {
		t.Errorf("expected empty hub, got %d", hub.Size())
	}
}

func TestExportNDJSON(t *testing.T) {
	st := newTestStore(t)
	r := NewRecorder(st, nil, 16)
	r.Record("derby", "post", 1)
	r.Record("kane", "player", 11)
	r.Close()

	var buf bytes.Buffer
	count, err := ExportNDJSON(context.Background(), st, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 exported events, got %d", count)
	}

	lines := 0
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var event ClickEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if event.ID == "" || event.Query == "" {
			t.Errorf("line %d missing fields: %+v", lines+1, event)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 NDJSON lines, got %d", lines)
	}
}
