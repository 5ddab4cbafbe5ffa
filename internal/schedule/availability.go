package schedule

import (
	"math"
	"sort"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// FindAllAvailable returns the IDs of every unit that is pending, unclaimed,
// and dependency-satisfied, in tree declaration order. Ordering by priority
// is a separate concern; see Prioritize.
func (s *Scheduler) FindAllAvailable() []string {
	var available []string
	for _, task := range s.tree.AllTasks() {
		if s.isAvailable(task, nil) {
			available = append(available, task.ID)
		}
	}
	return available
}

// isAvailable reports whether the unit could be claimed right now. batch
// holds IDs assumed completed for batch-claim checks; pass nil otherwise.
func (s *Scheduler) isAvailable(task *models.Task, batch map[string]struct{}) bool {
	if task == nil {
		return false
	}
	if task.Status != models.StatusPending || task.Claimed() {
		return false
	}
	return s.dependenciesSatisfied(task, batch)
}

// dependenciesSatisfied checks all three dependency classes for a unit:
//
//   - explicit depends_on entries: each must resolve to a known unit with
//     status done. An unresolvable reference counts as NOT satisfied, unlike
//     graph construction which silently drops the edge.
//   - the implicit previous-task-in-epic ordering, when the unit has no
//     explicit dependencies.
//   - roll-up dependencies declared on the enclosing epic, milestone, and
//     phase: every task under the dependency's subtree must be done.
//
// Units in batch are treated as done for the explicit and implicit classes
// only; roll-up dependencies get no batch relaxation.
func (s *Scheduler) dependenciesSatisfied(task *models.Task, batch map[string]struct{}) bool {
	for _, depID := range task.DependsOn {
		dep := s.resolveUnit(depID, task.EpicID)
		if dep == nil {
			return false
		}
		if dep.Status != models.StatusDone && !inBatch(batch, dep.ID) {
			return false
		}
	}

	if len(task.DependsOn) == 0 && task.EpicID != "" {
		if prev := s.previousInEpic(task); prev != nil {
			if prev.Status != models.StatusDone && !inBatch(batch, prev.ID) {
				return false
			}
		}
	}

	if task.PhaseID != "" {
		phase := s.tree.FindPhase(task.PhaseID)
		if phase != nil {
			for _, depID := range phase.DependsOn {
				dep := s.resolvePhase(depID)
				if dep != nil && !s.phaseComplete(dep) {
					return false
				}
			}
		}
	}
	if task.MilestoneID != "" {
		milestone := s.tree.FindMilestone(task.MilestoneID)
		if milestone != nil {
			for _, depID := range milestone.DependsOn {
				dep := s.resolveMilestone(depID, task.PhaseID)
				if dep != nil && !s.milestoneComplete(dep) {
					return false
				}
			}
		}
	}
	if task.EpicID != "" {
		epic := s.tree.FindEpic(task.EpicID)
		if epic != nil {
			for _, depID := range epic.DependsOn {
				dep := s.resolveEpic(depID, epic.MilestoneID)
				if dep != nil && !s.epicComplete(dep) {
					return false
				}
			}
		}
	}

	return true
}

// previousInEpic returns the task immediately before this one in its epic's
// declared order, or nil for the first task or auxiliary units.
func (s *Scheduler) previousInEpic(task *models.Task) *models.Task {
	epic := s.tree.FindEpic(task.EpicID)
	if epic == nil {
		return nil
	}
	for i := range epic.Tasks {
		if epic.Tasks[i].ID == task.ID {
			if i == 0 {
				return nil
			}
			return &epic.Tasks[i-1]
		}
	}
	return nil
}

func inBatch(batch map[string]struct{}, id string) bool {
	if batch == nil {
		return false
	}
	_, ok := batch[id]
	return ok
}

// phaseComplete reports whether every task under the phase is done. Empty
// subtrees count as complete.
func (s *Scheduler) phaseComplete(phase *models.Phase) bool {
	for i := range phase.Milestones {
		if !s.milestoneComplete(&phase.Milestones[i]) {
			return false
		}
	}
	return true
}

func (s *Scheduler) milestoneComplete(milestone *models.Milestone) bool {
	for i := range milestone.Epics {
		if !s.epicComplete(&milestone.Epics[i]) {
			return false
		}
	}
	return true
}

func (s *Scheduler) epicComplete(epic *models.Epic) bool {
	for i := range epic.Tasks {
		if epic.Tasks[i].Status != models.StatusDone {
			return false
		}
	}
	return true
}

// Prioritize stable-sorts candidate unit IDs by, in order: unit kind (bugs
// before tasks before ideas), declared priority, presence on the critical
// path, position on the critical path, and finally original input order.
// IDs that do not resolve to a unit are dropped.
func (s *Scheduler) Prioritize(candidates []string, criticalPath []string) []string {
	if len(candidates) == 0 {
		return []string{}
	}

	pathPos := make(map[string]int, len(criticalPath))
	for i, id := range criticalPath {
		pathPos[id] = i
	}

	type ranked struct {
		id       string
		kind     int
		priority int
		onPath   int
		pathPos  int
		input    int
	}
	items := make([]ranked, 0, len(candidates))
	for i, id := range candidates {
		task := s.tree.FindTask(id)
		if task == nil {
			continue
		}
		r := ranked{id: task.ID, kind: kindRank(task.Kind), priority: priorityRank(task.Priority), input: i}
		if pos, ok := pathPos[task.ID]; ok {
			r.onPath = 0
			r.pathPos = pos
		} else {
			r.onPath = 1
			r.pathPos = math.MaxInt
		}
		items = append(items, r)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.onPath != b.onPath {
			return a.onPath < b.onPath
		}
		if a.pathPos != b.pathPos {
			return a.pathPos < b.pathPos
		}
		return a.input < b.input
	})

	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.id
	}
	return out
}

func kindRank(kind models.UnitKind) int {
	switch kind {
	case models.KindBug:
		return 0
	case models.KindIdea:
		return 2
	default:
		return 1
	}
}

func priorityRank(priority models.Priority) int {
	switch priority {
	case models.PriorityCritical:
		return 0
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 3
	default:
		return 999
	}
}
