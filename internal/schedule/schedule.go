// Package schedule builds the weighted dependency graph over a backlog tree,
// computes its critical path, and decides which units are available to claim.
// It performs no I/O; callers load the tree, pass it in, and persist whatever
// claims they make afterwards.
package schedule

import (
	"github.com/ShayCichocki/foreman/pkg/models"
)

// DefaultMultipliers scales estimates by complexity when no mapping is
// configured.
var DefaultMultipliers = map[models.Complexity]float64{
	models.ComplexityLow:      1.0,
	models.ComplexityMedium:   1.25,
	models.ComplexityHigh:     1.5,
	models.ComplexityCritical: 2.0,
}

// Scheduler answers availability and critical-path questions about one loaded
// tree. It holds no state beyond the tree and the configured multipliers, so
// a fresh Scheduler per load-compute-save cycle is the expected usage.
type Scheduler struct {
	tree        *models.Tree
	multipliers map[models.Complexity]float64
}

// New creates a Scheduler for the given tree. Multipliers missing from the
// mapping fall back to 1.0; passing nil uses DefaultMultipliers.
func New(tree *models.Tree, multipliers map[models.Complexity]float64) *Scheduler {
	if multipliers == nil {
		multipliers = DefaultMultipliers
	}
	return &Scheduler{tree: tree, multipliers: multipliers}
}

// weight returns the unit's node weight: zero once done, otherwise the
// estimate scaled by the complexity multiplier.
func (s *Scheduler) weight(task *models.Task) float64 {
	if task.Status == models.StatusDone {
		return 0
	}
	m := s.multipliers[task.Complexity]
	if m == 0 {
		m = 1.0
	}
	return task.EstimateHours * m
}

// Calculate builds the dependency graph, solves the critical path, and picks
// the highest-ranked available unit. It returns the critical path as an
// ordered ID list and the next available unit ID, empty when nothing is ready.
// A *CycleError is returned if the dependency data is not a DAG.
func (s *Scheduler) Calculate() ([]string, string, error) {
	graph := s.BuildGraph()
	path, err := graph.LongestPath()
	if err != nil {
		return nil, "", err
	}
	ranked := s.Prioritize(s.FindAllAvailable(), path)
	if len(ranked) == 0 {
		return path, "", nil
	}
	return path, ranked[0], nil
}
