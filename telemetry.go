package main

import (
	"log"
	"sync"
	"time"
)

// Telemetry event types
const (
	EvtPeerConnect    = "peer_connect"
	EvtPeerDisconnect = "peer_disconnect"
	EvtNameChange     = "name_change"
	EvtScoreSubmit    = "score_submit"
)

// TelemetryEvent is a single trackable occurrence.
type TelemetryEvent struct {
	Type      string
	PeerID    string
	Data      string
	Timestamp time.Time
}

// Telemetry records session events with batched background writes so the
// relay path never waits on the database. The leaderboard is never
// rebuilt from this log; it is operational history only.
type Telemetry struct {
	db     *DB
	events chan TelemetryEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu              sync.RWMutex
	concurrentPeers int
}

// NewTelemetry creates the recorder and, when a database is present,
// starts the background writer. A nil db disables persistence; the live
// gauges keep working.
func NewTelemetry(db *DB) *Telemetry {
	t := &Telemetry{
		db:     db,
		events: make(chan TelemetryEvent, 1024),
		stop:   make(chan struct{}),
	}
	if db != nil {
		t.wg.Add(1)
		go t.writer()
	}
	return t
}

// Track enqueues an event for async persistence (non-blocking).
func (t *Telemetry) Track(evtType, peerID, data string) {
	if t.db == nil {
		return
	}
	select {
	case t.events <- TelemetryEvent{
		Type:      evtType,
		PeerID:    peerID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	case <-t.stop:
	default:
		// Channel full — drop event rather than blocking the session loop
	}
}

// SetConcurrentPeers updates the live peer count gauge.
func (t *Telemetry) SetConcurrentPeers(n int) {
	t.mu.Lock()
	t.concurrentPeers = n
	t.mu.Unlock()
}

// ConcurrentPeers returns the live peer count gauge.
func (t *Telemetry) ConcurrentPeers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.concurrentPeers
}

// Stop flushes pending events and shuts the writer down.
func (t *Telemetry) Stop() {
	if t.db == nil {
		return
	}
	close(t.stop)
	t.wg.Wait()
}

// writer is the background goroutine that batches and writes events.
func (t *Telemetry) writer() {
	defer t.wg.Done()

	batch := make([]TelemetryEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-t.events:
			batch = append(batch, evt)
			// Flush immediately if batch is large
			if len(batch) >= 50 {
				t.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = batch[:0]
			}
		case <-t.stop:
			// Drain whatever is still buffered
			for {
				select {
				case evt := <-t.events:
					batch = append(batch, evt)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				t.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database.
func (t *Telemetry) flush(events []TelemetryEvent) {
	if len(events) == 0 {
		return
	}
	tx, err := t.db.conn.Begin()
	if err != nil {
		log.Printf("telemetry: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO session_events (event_type, peer_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		log.Printf("telemetry: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		if _, err := stmt.Exec(evt.Type, evt.PeerID, evt.Data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("telemetry: insert error: %v", err)
		}
	}
	tx.Commit()
}

// --- Rollup queries for the API ---

// EventCounts returns counts of each event type for the last N days.
func (t *Telemetry) EventCounts(days int) (map[string]int, error) {
	if t.db == nil {
		return nil, nil
	}
	rows, err := t.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM session_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// DailyPeerHistory returns distinct connecting peers per day for the
// last N days.
func (t *Telemetry) DailyPeerHistory(days int) ([]DayCount, error) {
	if t.db == nil {
		return nil, nil
	}
	rows, err := t.db.conn.Query(`
		SELECT date(created_at) as day, COUNT(DISTINCT peer_id)
		FROM session_events
		WHERE event_type = ? AND created_at >= date('now', '-' || ? || ' days')
		GROUP BY day ORDER BY day
	`, EvtPeerConnect, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			continue
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

// DayCount holds a count for a specific day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
