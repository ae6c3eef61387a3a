// Package analytics records which search results users select. Recording is
// fire-and-forget: events are queued to a background writer and fanned out
// to live listeners, and a full queue or a failed insert can never affect
// the search result that triggered it.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/matchdayhq/matchday/pkg/log"
	"github.com/matchdayhq/matchday/pkg/store"
)

// ClickEvent is one recorded result selection.
type ClickEvent struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	ResultKind string    `json:"result_kind"`
	ResultID   int64     `json:"result_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recorder persists click events asynchronously and broadcasts them to the
// hub. Construct with NewRecorder and stop with Close.
type Recorder struct {
	store  *store.Store
	hub    *Hub
	events chan ClickEvent
	done   chan struct{}
	logger *log.Logger
}

// NewRecorder starts the background writer. queueSize <= 0 selects a
// default of 256.
func NewRecorder(st *store.Store, hub *Hub, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		store:  st,
		hub:    hub,
		events: make(chan ClickEvent, queueSize),
		done:   make(chan struct{}),
		logger: log.ForComponent("analytics"),
	}
	go r.run()
	return r
}

// Record queues a click event. It never blocks: when the queue is full the
// event is dropped and counted against nothing but a warning log line.
func (r *Recorder) Record(query, resultKind string, resultID int64) {
	event := ClickEvent{
		ID:         uuid.New().String(),
		Query:      query,
		ResultKind: resultKind,
		ResultID:   resultID,
		CreatedAt:  time.Now().UTC(),
	}

	select {
	case r.events <- event:
	default:
		r.logger.Warnf("click queue full, dropping event for %s/%d", resultKind, resultID)
	}
}

// Close drains the queue and stops the writer.
func (r *Recorder) Close() {
	close(r.events)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for event := range r.events {
		if err := r.persist(event); err != nil {
			r.logger.Warnf("persisting click event: %v", err)
			// Best effort only; the event is still broadcast.
		}
		if r.hub != nil {
			r.hub.Broadcast(event)
		}
	}
}

func (r *Recorder) persist(event ClickEvent) error {
	_, err := r.store.DB().Exec(`
		INSERT INTO click_events (id, query, result_kind, result_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.Query, event.ResultKind, event.ResultID, event.CreatedAt)
	return err
}

// ExportNDJSON writes every stored click event to w as one JSON object per
// line, oldest first. Callers wrap w for compression.
func ExportNDJSON(ctx context.Context, st *store.Store, w io.Writer) (int, error) {
	rows, err := st.DB().QueryContext(ctx, `
		SELECT id, query, result_kind, result_id, created_at
		FROM click_events
		ORDER BY created_at ASC`)
	if err != nil {
		return 0, fmt.Errorf("querying click events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	enc := json.NewEncoder(w)
	count := 0
	for rows.Next() {
		var event ClickEvent
		if err := rows.Scan(&event.ID, &event.Query, &event.ResultKind, &event.ResultID, &event.CreatedAt); err != nil {
			return count, fmt.Errorf("scanning click event: %w", err)
		}
		if err := enc.Encode(event); err != nil {
			return count, fmt.Errorf("encoding click event %s: %w", event.ID, err)
		}
		count++
	}

	return count, rows.Err()
}
