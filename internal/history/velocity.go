package history

import (
	"fmt"
	"time"
)

// DayCount is the number of completions on one calendar day (UTC).
type DayCount struct {
	Day   string
	Count int
}

// AgentStats summarizes one agent's completions.
type AgentStats struct {
	Agent           string
	Completed       int
	AvgDurationMins float64
}

// VelocityReport summarizes completion throughput over a window.
type VelocityReport struct {
	Since           time.Time
	Completed       int
	AvgDurationMins float64
	PerDay          []DayCount
	PerAgent        []AgentStats
}

// Velocity computes a completion report for events at or after since.
func (db *DB) Velocity(since time.Time) (*VelocityReport, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	report := &VelocityReport{Since: since}
	cutoff := formatTime(since)

	row := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(duration_minutes), 0)
		FROM events WHERE event = 'complete' AND at >= ?
	`, cutoff)
	if err := row.Scan(&report.Completed, &report.AvgDurationMins); err != nil {
		return nil, fmt.Errorf("query completion totals: %w", err)
	}

	dayRows, err := db.conn.Query(`
		SELECT substr(at, 1, 10) AS day, COUNT(*)
		FROM events WHERE event = 'complete' AND at >= ?
		GROUP BY day ORDER BY day ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query per-day completions: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var dc DayCount
		if err := dayRows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		report.PerDay = append(report.PerDay, dc)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	agentRows, err := db.conn.Query(`
		SELECT agent, COUNT(*), COALESCE(AVG(duration_minutes), 0)
		FROM events WHERE event = 'complete' AND at >= ?
		GROUP BY agent ORDER BY COUNT(*) DESC, agent ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query per-agent completions: %w", err)
	}
	defer agentRows.Close()

	for agentRows.Next() {
		var as AgentStats
		if err := agentRows.Scan(&as.Agent, &as.Completed, &as.AvgDurationMins); err != nil {
			return nil, fmt.Errorf("scan agent stats: %w", err)
		}
		report.PerAgent = append(report.PerAgent, as)
	}
	if err := agentRows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
