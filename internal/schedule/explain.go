package schedule

import (
	"fmt"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// DependencyStatus describes one dependency of a unit for explain reports.
type DependencyStatus struct {
	// ID is the dependency reference as written in the backlog.
	ID string
	// Found is false when the reference does not resolve to any unit.
	Found bool
	// Title and Status describe the resolved unit when Found.
	Title  string
	Status models.Status
	// Satisfied is true when the resolved unit is done.
	Satisfied bool
}

// Report explains why a unit is or is not startable right now.
type Report struct {
	TaskID    string
	Title     string
	Status    models.Status
	CanStart  bool
	OnPath    bool
	PathIndex int
	// Explicit holds the state of each depends_on entry.
	Explicit []DependencyStatus
	// Implicit is the previous-in-epic dependency, nil when not applicable.
	Implicit *DependencyStatus
	// RollupBlockers lists enclosing-scope dependencies (epic, milestone, or
	// phase IDs) whose subtrees are not yet fully complete.
	RollupBlockers []string
}

// Explain builds a Report for the given unit. The critical path is computed
// as part of the report, so a cycle in the graph surfaces here too.
func (s *Scheduler) Explain(id string) (Report, error) {
	report := Report{TaskID: id, PathIndex: -1}
	task := s.tree.FindTask(id)
	if task == nil {
		return report, fmt.Errorf("unit not found: %s", id)
	}
	report.TaskID = task.ID
	report.Title = task.Title
	report.Status = task.Status

	path, _, err := s.Calculate()
	if err != nil {
		return report, err
	}
	for i, pathID := range path {
		if pathID == task.ID {
			report.OnPath = true
			report.PathIndex = i
			break
		}
	}

	for _, depID := range task.DependsOn {
		ds := DependencyStatus{ID: depID}
		if dep := s.resolveUnit(depID, task.EpicID); dep != nil {
			ds.Found = true
			ds.Title = dep.Title
			ds.Status = dep.Status
			ds.Satisfied = dep.Status == models.StatusDone
		}
		report.Explicit = append(report.Explicit, ds)
	}

	if len(task.DependsOn) == 0 && task.EpicID != "" {
		if prev := s.previousInEpic(task); prev != nil {
			report.Implicit = &DependencyStatus{
				ID:        prev.ID,
				Found:     true,
				Title:     prev.Title,
				Status:    prev.Status,
				Satisfied: prev.Status == models.StatusDone,
			}
		}
	}

	report.RollupBlockers = s.rollupBlockers(task)
	report.CanStart = s.isAvailable(task, nil)
	return report, nil
}

// CanStart reports whether the unit is currently claimable.
func (s *Scheduler) CanStart(id string) (bool, error) {
	task := s.tree.FindTask(id)
	if task == nil {
		return false, fmt.Errorf("unit not found: %s", id)
	}
	return s.isAvailable(task, nil), nil
}

// rollupBlockers returns the IDs of enclosing-scope dependencies whose
// subtrees are not fully complete.
func (s *Scheduler) rollupBlockers(task *models.Task) []string {
	var blockers []string
	if task.EpicID != "" {
		if epic := s.tree.FindEpic(task.EpicID); epic != nil {
			for _, depID := range epic.DependsOn {
				if dep := s.resolveEpic(depID, epic.MilestoneID); dep != nil && !s.epicComplete(dep) {
					blockers = append(blockers, dep.ID)
				}
			}
		}
	}
	if task.MilestoneID != "" {
		if milestone := s.tree.FindMilestone(task.MilestoneID); milestone != nil {
			for _, depID := range milestone.DependsOn {
				if dep := s.resolveMilestone(depID, task.PhaseID); dep != nil && !s.milestoneComplete(dep) {
					blockers = append(blockers, dep.ID)
				}
			}
		}
	}
	if task.PhaseID != "" {
		if phase := s.tree.FindPhase(task.PhaseID); phase != nil {
			for _, depID := range phase.DependsOn {
				if dep := s.resolvePhase(depID); dep != nil && !s.phaseComplete(dep) {
					blockers = append(blockers, dep.ID)
				}
			}
		}
	}
	return blockers
}

// FindPendingBlocked returns pending, unclaimed units that are not currently
// available, in declaration order.
func (s *Scheduler) FindPendingBlocked() []string {
	var blocked []string
	for _, task := range s.tree.AllTasks() {
		if task.Status != models.StatusPending || task.Claimed() {
			continue
		}
		if !s.dependenciesSatisfied(task, nil) {
			blocked = append(blocked, task.ID)
		}
	}
	return blocked
}

// FindRootBlockers returns the units most directly holding up the pending
// blocked set: dependencies that are in progress, or pending and themselves
// available. Informational for "no available work" reporting.
func (s *Scheduler) FindRootBlockers() []string {
	seen := make(map[string]struct{})
	var out []string
	note := func(task *models.Task) {
		if task.Status == models.StatusDone {
			return
		}
		startable := task.Status == models.StatusInProgress ||
			(task.Status == models.StatusPending && s.isAvailable(task, nil))
		if !startable {
			return
		}
		if _, dup := seen[task.ID]; dup {
			return
		}
		seen[task.ID] = struct{}{}
		out = append(out, task.ID)
	}

	for _, blockedID := range s.FindPendingBlocked() {
		task := s.tree.FindTask(blockedID)
		if task == nil {
			continue
		}
		for _, depID := range task.DependsOn {
			if dep := s.resolveUnit(depID, task.EpicID); dep != nil {
				note(dep)
			}
		}
		if len(task.DependsOn) == 0 && task.EpicID != "" {
			if prev := s.previousInEpic(task); prev != nil {
				note(prev)
			}
		}
	}
	return out
}
