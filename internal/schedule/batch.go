package schedule

import (
	"fmt"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// Diversity score increments for independent-task selection. A candidate in a
// different phase is worth far more than one merely in a different epic, so a
// second agent lands as far from the primary's blast radius as possible.
const (
	scorePhaseDiffers     = 1000
	scoreMilestoneDiffers = 100
	scoreEpicDiffers      = 10
)

// FindSiblingTasks walks the tasks strictly after primary within the same
// epic, in epic order, and returns up to count of them that could be claimed
// together for sequential execution. A sibling's dependencies are checked as
// if the batch completes in order: explicit and implicit dependencies already
// in the batch count as satisfied, while roll-up dependencies on the
// enclosing scopes must still be fully complete.
func (s *Scheduler) FindSiblingTasks(primaryID string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	primary := s.tree.FindTask(primaryID)
	if primary == nil {
		return nil, fmt.Errorf("unit not found: %s", primaryID)
	}
	if primary.EpicID == "" {
		return []string{}, nil
	}
	epic := s.tree.FindEpic(primary.EpicID)
	if epic == nil {
		return []string{}, nil
	}

	index := -1
	for i := range epic.Tasks {
		if epic.Tasks[i].ID == primary.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("unit %s not found in epic %s", primary.ID, primary.EpicID)
	}

	batch := map[string]struct{}{primary.ID: {}}
	var out []string
	for i := index + 1; i < len(epic.Tasks) && len(out) < count; i++ {
		task := &epic.Tasks[i]
		if task.Status != models.StatusPending || task.Claimed() {
			continue
		}
		if s.dependenciesSatisfied(task, batch) {
			out = append(out, task.ID)
			batch[task.ID] = struct{}{}
		}
	}
	return out, nil
}

// FindIndependentTasks selects up to count available tasks from epics other
// than primary's, with no dependency relationship to primary or to each other
// in either direction. Selection is greedy: each round picks the candidate
// maximizing the accumulated diversity score against the primary and every
// task already selected.
func (s *Scheduler) FindIndependentTasks(primaryID string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	primary := s.tree.FindTask(primaryID)
	if primary == nil {
		return nil, fmt.Errorf("unit not found: %s", primaryID)
	}

	var candidates []*models.Task
	for _, id := range s.FindAllAvailable() {
		if id == primary.ID {
			continue
		}
		task := s.tree.FindTask(id)
		if task == nil || task.EpicID == "" || task.EpicID == primary.EpicID {
			continue
		}
		if s.dependencyRelated(task, primary) {
			continue
		}
		candidates = append(candidates, task)
	}

	var selected []*models.Task
	for len(selected) < count {
		var best *models.Task
		bestScore := -1
		for _, candidate := range candidates {
			if picked(selected, candidate.ID) {
				continue
			}
			conflict := false
			for _, chosen := range selected {
				if s.dependencyRelated(candidate, chosen) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			score := diversityScore(candidate, primary)
			for _, chosen := range selected {
				score += diversityScore(candidate, chosen)
			}
			if score > bestScore {
				best = candidate
				bestScore = score
			}
		}
		if best == nil {
			break
		}
		selected = append(selected, best)
	}

	out := make([]string, len(selected))
	for i, task := range selected {
		out[i] = task.ID
	}
	return out, nil
}

func picked(selected []*models.Task, id string) bool {
	for _, task := range selected {
		if task.ID == id {
			return true
		}
	}
	return false
}

// diversityScore rewards distance between two tasks in the hierarchy: a
// different phase beats a different milestone beats a different epic.
func diversityScore(a, b *models.Task) int {
	switch {
	case a.PhaseID != b.PhaseID:
		return scorePhaseDiffers
	case a.MilestoneID != b.MilestoneID:
		return scoreMilestoneDiffers
	case a.EpicID != b.EpicID:
		return scoreEpicDiffers
	default:
		return 0
	}
}

// dependencyRelated reports whether either task transitively depends on the
// other through explicit depends_on entries or the implicit previous-in-epic
// chain. Roll-up dependencies are not traversed here.
func (s *Scheduler) dependencyRelated(a, b *models.Task) bool {
	return s.inDependencyChain(a, b.ID) || s.inDependencyChain(b, a.ID)
}

// inDependencyChain walks start's dependency chain with an explicit worklist
// and a per-call visited set, looking for targetID.
func (s *Scheduler) inDependencyChain(start *models.Task, targetID string) bool {
	visited := make(map[string]struct{})
	worklist := []*models.Task{start}
	for len(worklist) > 0 {
		task := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if _, seen := visited[task.ID]; seen {
			continue
		}
		visited[task.ID] = struct{}{}

		var deps []*models.Task
		for _, depID := range task.DependsOn {
			if dep := s.resolveUnit(depID, task.EpicID); dep != nil {
				deps = append(deps, dep)
			}
		}
		if len(task.DependsOn) == 0 && task.EpicID != "" {
			if prev := s.previousInEpic(task); prev != nil {
				deps = append(deps, prev)
			}
		}

		for _, dep := range deps {
			if dep.ID == targetID {
				return true
			}
			worklist = append(worklist, dep)
		}
	}
	return false
}
