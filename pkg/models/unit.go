// Package models defines the work-breakdown hierarchy persisted in a backlog:
// Phase -> Milestone -> Epic -> Task, plus the flat bug and idea collections.
package models

import (
	"fmt"
	"time"
)

// Status represents the current state of a schedulable unit.
type Status string

const (
	// StatusPending indicates the unit has not started.
	StatusPending Status = "pending"
	// StatusInProgress indicates the unit is claimed and being worked on.
	StatusInProgress Status = "in_progress"
	// StatusDone indicates the unit completed successfully.
	StatusDone Status = "done"
	// StatusBlocked indicates the unit cannot proceed.
	StatusBlocked Status = "blocked"
	// StatusRejected indicates the unit was reviewed and rejected.
	StatusRejected Status = "rejected"
	// StatusCancelled indicates the unit was abandoned.
	StatusCancelled Status = "cancelled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusBlocked, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions are allowed from this status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Complexity is the estimated difficulty of a unit. It scales the unit's
// weight in the dependency graph via configured multipliers.
type Complexity string

const (
	ComplexityLow      Complexity = "low"
	ComplexityMedium   Complexity = "medium"
	ComplexityHigh     Complexity = "high"
	ComplexityCritical Complexity = "critical"
)

// Priority orders otherwise-equal units when picking the next claim.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// UnitKind discriminates hierarchical tasks from the flat auxiliary
// collections. The kind is tagged once at load time from the collection the
// unit was read from, never re-derived from ID text.
type UnitKind int

const (
	// KindTask is an ordinary hierarchical task.
	KindTask UnitKind = iota
	// KindBug is a flat auxiliary bug (B1, B2, ...).
	KindBug
	// KindIdea is a flat auxiliary idea (I1, I2, ...).
	KindIdea
)

// String returns the kind name for display.
func (k UnitKind) String() string {
	switch k {
	case KindBug:
		return "bug"
	case KindIdea:
		return "idea"
	default:
		return "task"
	}
}

// Task is the schedulable unit of work. Bugs and ideas reuse the same shape
// with Kind set accordingly and empty parent IDs.
type Task struct {
	// ID is the hierarchical identifier, e.g. "P1.M1.E1.T001", or "B1"/"I1"
	// for auxiliary units.
	ID string `yaml:"id"`
	// Title is the short description of the task.
	Title string `yaml:"title"`
	// Status is the current state of the task.
	Status Status `yaml:"status"`
	// EstimateHours is the raw effort estimate before complexity scaling.
	EstimateHours float64 `yaml:"estimate_hours"`
	// Complexity scales the estimate into a graph weight.
	Complexity Complexity `yaml:"complexity"`
	// Priority orders the task against other available units.
	Priority Priority `yaml:"priority"`
	// DependsOn lists unit IDs that must complete before this task. IDs may
	// be fully qualified or relative to the nearest enclosing scope.
	DependsOn []string `yaml:"depends_on,omitempty"`
	// ClaimedBy is the agent currently working the task, empty if unclaimed.
	ClaimedBy string `yaml:"claimed_by,omitempty"`
	// ClaimedAt is when the task was claimed.
	ClaimedAt *time.Time `yaml:"claimed_at,omitempty"`
	// StartedAt is when work began.
	StartedAt *time.Time `yaml:"started_at,omitempty"`
	// CompletedAt is when the task was completed.
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	// DurationMinutes is the claim-to-completion duration, set on completion.
	DurationMinutes *int `yaml:"duration_minutes,omitempty"`
	// Tags are free-form labels.
	Tags []string `yaml:"tags,omitempty"`
	// EpicID, MilestoneID, and PhaseID identify the owning scopes. All three
	// are empty for auxiliary units. Filled by the loader, not persisted.
	EpicID      string `yaml:"-"`
	MilestoneID string `yaml:"-"`
	PhaseID     string `yaml:"-"`
	// Kind discriminates tasks from bugs and ideas. Set by the loader.
	Kind UnitKind `yaml:"-"`
}

// Claimed returns true if an agent currently owns the task.
func (t *Task) Claimed() bool {
	return t.ClaimedBy != ""
}

// Epic groups an ordered list of tasks. Task order defines an implicit
// dependency chain for tasks without explicit depends_on entries.
type Epic struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Status        Status     `yaml:"status"`
	EstimateHours float64    `yaml:"estimate_hours"`
	Complexity    Complexity `yaml:"complexity"`
	// DependsOn lists epic IDs, relative to the owning milestone or fully
	// qualified.
	DependsOn []string `yaml:"depends_on,omitempty"`
	Tasks     []Task   `yaml:"tasks,omitempty"`
	// MilestoneID and PhaseID identify the owning scopes. Filled by the loader.
	MilestoneID string `yaml:"-"`
	PhaseID     string `yaml:"-"`
}

// Milestone groups an ordered list of epics.
type Milestone struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Status        Status     `yaml:"status"`
	EstimateHours float64    `yaml:"estimate_hours"`
	Complexity    Complexity `yaml:"complexity"`
	// DependsOn lists milestone IDs, relative to the owning phase or fully
	// qualified.
	DependsOn []string `yaml:"depends_on,omitempty"`
	Epics     []Epic   `yaml:"epics,omitempty"`
	// PhaseID identifies the owning phase. Filled by the loader.
	PhaseID string `yaml:"-"`
}

// Phase is the top grouping level.
type Phase struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Status        Status   `yaml:"status"`
	Weeks         float64  `yaml:"weeks,omitempty"`
	EstimateHours float64  `yaml:"estimate_hours"`
	Priority      Priority `yaml:"priority"`
	// DependsOn lists absolute phase IDs.
	DependsOn  []string    `yaml:"depends_on,omitempty"`
	Milestones []Milestone `yaml:"milestones,omitempty"`
}

// ValidateStatusTransition reports whether moving a unit from current to next
// is a legal lifecycle step.
func ValidateStatusTransition(current, next Status) error {
	if !current.Valid() {
		return fmt.Errorf("unknown status %q", current)
	}
	if !next.Valid() {
		return fmt.Errorf("unknown status %q", next)
	}
	if current == next {
		return nil
	}
	if current.Terminal() {
		return fmt.Errorf("cannot transition from terminal status %q", current)
	}
	allowed := map[Status][]Status{
		StatusPending:    {StatusInProgress, StatusBlocked, StatusRejected, StatusCancelled, StatusDone},
		StatusInProgress: {StatusDone, StatusPending, StatusBlocked, StatusCancelled},
		StatusBlocked:    {StatusPending, StatusInProgress, StatusCancelled},
		StatusDone:       {StatusPending},
	}
	for _, s := range allowed[current] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("invalid status transition %q -> %q", current, next)
}
