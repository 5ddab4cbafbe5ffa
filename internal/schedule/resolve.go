package schedule

import (
	"strings"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// Dependency IDs may be written fully qualified ("P1.M1.E1.T002") or relative
// to the nearest enclosing scope ("T002" inside the same epic, "E2" inside the
// same milestone, "M2" inside the same phase). Resolution always tries the
// exact match first, then the scope-qualified form. These helpers are the
// single resolution path shared by graph construction and availability
// checking; the two differ only in how they treat a nil result (construction
// drops the edge, checking treats the dependency as unsatisfied).

// resolveUnit resolves a task-level dependency reference against the tree.
// epicID is the referencing unit's owning epic, empty for auxiliary units.
func (s *Scheduler) resolveUnit(depID, epicID string) *models.Task {
	depID = strings.TrimSpace(depID)
	if depID == "" {
		return nil
	}
	if task := s.tree.FindTask(depID); task != nil {
		return task
	}
	if epicID != "" && !strings.Contains(depID, ".") {
		return s.tree.FindTask(epicID + "." + depID)
	}
	return nil
}

// resolveEpic resolves an epic-level dependency reference, trying the exact
// ID first and then qualifying short IDs with the owning milestone.
func (s *Scheduler) resolveEpic(depID, milestoneID string) *models.Epic {
	depID = strings.TrimSpace(depID)
	if depID == "" {
		return nil
	}
	if epic := s.tree.FindEpic(depID); epic != nil {
		return epic
	}
	if milestoneID != "" && !strings.Contains(depID, ".") {
		return s.tree.FindEpic(milestoneID + "." + depID)
	}
	return nil
}

// resolveMilestone resolves a milestone-level dependency reference, trying the
// exact ID first and then qualifying short IDs with the owning phase.
func (s *Scheduler) resolveMilestone(depID, phaseID string) *models.Milestone {
	depID = strings.TrimSpace(depID)
	if depID == "" {
		return nil
	}
	if milestone := s.tree.FindMilestone(depID); milestone != nil {
		return milestone
	}
	if phaseID != "" && !strings.Contains(depID, ".") {
		return s.tree.FindMilestone(phaseID + "." + depID)
	}
	return nil
}

// resolvePhase resolves a phase-level dependency reference. Phase IDs are
// always absolute.
func (s *Scheduler) resolvePhase(depID string) *models.Phase {
	depID = strings.TrimSpace(depID)
	if depID == "" {
		return nil
	}
	return s.tree.FindPhase(depID)
}
