package store

import (
	"fmt"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// DataError reports a structural problem in the persisted backlog. The
// scheduler assumes it only ever receives a valid tree, so loading fails
// rather than handing a malformed document downstream.
type DataError struct {
	ID     string
	Reason string
}

func (e *DataError) Error() string {
	if e.ID == "" {
		return "backlog data error: " + e.Reason
	}
	return fmt.Sprintf("backlog data error at %s: %s", e.ID, e.Reason)
}

// Normalize fills derived fields on a freshly parsed tree and validates its
// structure: parent IDs and unit kinds are set here once, statuses default to
// pending, and ID shape, uniqueness, and hierarchical nesting are enforced.
func Normalize(tree *models.Tree) error {
	seen := make(map[string]string) // id -> category, for uniqueness errors

	note := func(id, category string) error {
		if id == "" {
			return &DataError{Reason: "missing id on a " + category}
		}
		if !models.ValidUnitID(id) {
			return &DataError{ID: id, Reason: "malformed " + category + " id"}
		}
		if prev, dup := seen[id]; dup {
			return &DataError{ID: id, Reason: "duplicate id (already used by a " + prev + ")"}
		}
		seen[id] = category
		return nil
	}

	// nested parses a hierarchical ID and checks it sits directly under the
	// expected parent scope.
	nested := func(id string, depth int, parent string) error {
		path, err := models.ParseUnitPath(id)
		if err != nil {
			return &DataError{ID: id, Reason: err.Error()}
		}
		if path.Depth() != depth {
			return &DataError{ID: id, Reason: fmt.Sprintf("id names the wrong level (depth %d, want %d)", path.Depth(), depth)}
		}
		var enclosing string
		switch depth {
		case 2:
			enclosing = path.Phase
		case 3:
			enclosing = path.Milestone
		case 4:
			enclosing = path.Epic
		}
		if enclosing != parent {
			return &DataError{ID: id, Reason: "id not nested under " + parent}
		}
		return nil
	}

	for pi := range tree.Phases {
		phase := &tree.Phases[pi]
		if err := note(phase.ID, "phase"); err != nil {
			return err
		}
		defaultStatus(&phase.Status)
		for mi := range phase.Milestones {
			milestone := &phase.Milestones[mi]
			if err := note(milestone.ID, "milestone"); err != nil {
				return err
			}
			if err := nested(milestone.ID, 2, phase.ID); err != nil {
				return err
			}
			defaultStatus(&milestone.Status)
			milestone.PhaseID = phase.ID
			for ei := range milestone.Epics {
				epic := &milestone.Epics[ei]
				if err := note(epic.ID, "epic"); err != nil {
					return err
				}
				if err := nested(epic.ID, 3, milestone.ID); err != nil {
					return err
				}
				defaultStatus(&epic.Status)
				epic.MilestoneID = milestone.ID
				epic.PhaseID = phase.ID
				for ti := range epic.Tasks {
					task := &epic.Tasks[ti]
					if err := note(task.ID, "task"); err != nil {
						return err
					}
					if err := nested(task.ID, 4, epic.ID); err != nil {
						return err
					}
					if err := normalizeTask(task); err != nil {
						return err
					}
					task.EpicID = epic.ID
					task.MilestoneID = milestone.ID
					task.PhaseID = phase.ID
					task.Kind = models.KindTask
				}
			}
		}
	}

	for i := range tree.Bugs {
		bug := &tree.Bugs[i]
		if err := note(bug.ID, "bug"); err != nil {
			return err
		}
		if err := normalizeTask(bug); err != nil {
			return err
		}
		bug.Kind = models.KindBug
	}
	for i := range tree.Ideas {
		idea := &tree.Ideas[i]
		if err := note(idea.ID, "idea"); err != nil {
			return err
		}
		if err := normalizeTask(idea); err != nil {
			return err
		}
		idea.Kind = models.KindIdea
	}

	return nil
}

func normalizeTask(task *models.Task) error {
	defaultStatus(&task.Status)
	if !task.Status.Valid() {
		return &DataError{ID: task.ID, Reason: fmt.Sprintf("unknown status %q", task.Status)}
	}
	if task.EstimateHours < 0 {
		return &DataError{ID: task.ID, Reason: "negative estimate_hours"}
	}
	return nil
}

func defaultStatus(status *models.Status) {
	if *status == "" {
		*status = models.StatusPending
	}
}
