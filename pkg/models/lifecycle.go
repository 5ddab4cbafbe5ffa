package models

import (
	"fmt"
	"time"
)

// Claim marks the task as owned by agent and in progress.
func (t *Task) Claim(agent string, now time.Time) error {
	if agent == "" {
		return fmt.Errorf("claim %s: agent must not be empty", t.ID)
	}
	if t.Claimed() && t.ClaimedBy != agent {
		return fmt.Errorf("claim %s: already claimed by %s", t.ID, t.ClaimedBy)
	}
	if err := ValidateStatusTransition(t.Status, StatusInProgress); err != nil {
		return fmt.Errorf("claim %s: %w", t.ID, err)
	}
	t.Status = StatusInProgress
	t.ClaimedBy = agent
	t.ClaimedAt = &now
	t.StartedAt = &now
	return nil
}

// Complete marks the task done and records the claim-to-completion duration.
func (t *Task) Complete(now time.Time) error {
	if err := ValidateStatusTransition(t.Status, StatusDone); err != nil {
		return fmt.Errorf("complete %s: %w", t.ID, err)
	}
	t.Status = StatusDone
	t.CompletedAt = &now
	if t.ClaimedAt != nil {
		minutes := int(now.Sub(*t.ClaimedAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		t.DurationMinutes = &minutes
	}
	return nil
}

// Release returns a claimed task to the pending pool, clearing ownership.
func (t *Task) Release() error {
	if err := ValidateStatusTransition(t.Status, StatusPending); err != nil {
		return fmt.Errorf("release %s: %w", t.ID, err)
	}
	t.Status = StatusPending
	t.ClaimedBy = ""
	t.ClaimedAt = nil
	t.StartedAt = nil
	return nil
}
