package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	// EventClaim records an agent taking ownership of a unit.
	EventClaim EventType = "claim"
	// EventComplete records a unit finishing.
	EventComplete EventType = "complete"
	// EventUnclaim records an agent voluntarily releasing a unit.
	EventUnclaim EventType = "unclaim"
	// EventReclaim records a stale claim being reset.
	EventReclaim EventType = "reclaim"
)

// Event is one row in the event log.
type Event struct {
	ID              string
	UnitID          string
	Kind            string
	Agent           string
	Event           EventType
	At              time.Time
	DurationMinutes *int
}

// Record appends an event for a unit. The event ID is generated here.
func (db *DB) Record(task *models.Task, event EventType, agent string, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var duration any
	if event == EventComplete && task.DurationMinutes != nil {
		duration = *task.DurationMinutes
	}

	_, err := db.conn.Exec(`
		INSERT INTO events (id, unit_id, kind, agent, event, at, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), task.ID, task.Kind.String(), agent, string(event), formatTime(at), duration)
	if err != nil {
		return fmt.Errorf("record %s event for %s: %w", event, task.ID, err)
	}
	return nil
}

// UnitEvents returns all events for one unit, oldest first.
func (db *DB) UnitEvents(unitID string) ([]Event, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, unit_id, kind, agent, event, at, duration_minutes
		FROM events WHERE unit_id = ? ORDER BY at ASC
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("query events for %s: %w", unitID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// RecentEvents returns the most recent events across all units, newest first.
func (db *DB) RecentEvents(limit int) ([]Event, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, unit_id, kind, agent, event, at, duration_minutes
		FROM events ORDER BY at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			e        Event
			at       string
			duration sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UnitID, &e.Kind, &e.Agent, (*string)(&e.Event), &at, &duration); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		parsed, err := parseTime(at)
		if err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", at, err)
		}
		e.At = parsed
		if duration.Valid {
			d := int(duration.Int64)
			e.DurationMinutes = &d
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
