package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// ID allocation for add operations: numbers are sequential within the parent
// scope, starting at 1. Tasks are zero-padded to three digits ("T001") to
// keep lexical and numeric order aligned; the other levels use plain numbers.

// NextPhaseID returns the next free phase ID for the tree.
func NextPhaseID(tree *models.Tree) string {
	max := 0
	for i := range tree.Phases {
		max = maxSuffix(max, leaf(tree.Phases[i].ID), "P")
	}
	return fmt.Sprintf("P%d", max+1)
}

// NextMilestoneID returns the next free milestone ID within a phase.
func NextMilestoneID(phase *models.Phase) string {
	max := 0
	for i := range phase.Milestones {
		max = maxSuffix(max, leaf(phase.Milestones[i].ID), "M")
	}
	return fmt.Sprintf("%s.M%d", phase.ID, max+1)
}

// NextEpicID returns the next free epic ID within a milestone.
func NextEpicID(milestone *models.Milestone) string {
	max := 0
	for i := range milestone.Epics {
		max = maxSuffix(max, leaf(milestone.Epics[i].ID), "E")
	}
	return fmt.Sprintf("%s.E%d", milestone.ID, max+1)
}

// NextTaskID returns the next free task ID within an epic.
func NextTaskID(epic *models.Epic) string {
	max := 0
	for i := range epic.Tasks {
		max = maxSuffix(max, leaf(epic.Tasks[i].ID), "T")
	}
	return fmt.Sprintf("%s.T%03d", epic.ID, max+1)
}

// NextBugID returns the next free bug ID.
func NextBugID(tree *models.Tree) string {
	max := 0
	for i := range tree.Bugs {
		max = maxSuffix(max, tree.Bugs[i].ID, "B")
	}
	return fmt.Sprintf("B%d", max+1)
}

// NextIdeaID returns the next free idea ID.
func NextIdeaID(tree *models.Tree) string {
	max := 0
	for i := range tree.Ideas {
		max = maxSuffix(max, tree.Ideas[i].ID, "I")
	}
	return fmt.Sprintf("I%d", max+1)
}

// leaf returns the last dot component of a hierarchical ID.
func leaf(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

func maxSuffix(current int, id, prefix string) int {
	if !strings.HasPrefix(id, prefix) {
		return current
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil || n <= current {
		return current
	}
	return n
}
