package schedule

import (
	"errors"
	"testing"

	"github.com/ShayCichocki/foreman/pkg/models"
)

func TestCalculateCycleFails(t *testing.T) {
	tree := scenarioTree()
	tree.FindTask("P1.M1.E1.T001").DependsOn = []string{"P1.M1.E1.T002"}
	tree.FindTask("P1.M1.E1.T002").DependsOn = []string{"P1.M1.E1.T001"}
	s := New(tree, nil)

	_, _, err := s.Calculate()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if cycleErr.Total < 1 {
		t.Errorf("expected at least one cycle, got %d", cycleErr.Total)
	}
	if len(cycleErr.Cycles) == 0 {
		t.Fatal("expected at least one example cycle")
	}
	cycle := cycleErr.Cycles[0]
	if !containsID(cycle, "P1.M1.E1.T001") || !containsID(cycle, "P1.M1.E1.T002") {
		t.Errorf("cycle %v should contain both task IDs", cycle)
	}
}

func TestCycleErrorCapsExamples(t *testing.T) {
	// Six independent 2-cycles across six epics.
	var epics []models.Epic
	for i := 0; i < 6; i++ {
		e := string(rune('1' + i))
		epicID := "P1.M1.E" + e
		epics = append(epics, models.Epic{
			ID: epicID, Status: models.StatusPending,
			Tasks: []models.Task{
				task(epicID+".T001", "a", 1, models.ComplexityLow, epicID+".T002"),
				task(epicID+".T002", "b", 1, models.ComplexityLow, epicID+".T001"),
			},
		})
	}
	tree := link(&models.Tree{
		Project: "cycles",
		Phases: []models.Phase{{
			ID: "P1", Status: models.StatusPending,
			Milestones: []models.Milestone{{ID: "P1.M1", Status: models.StatusPending, Epics: epics}},
		}},
	})

	_, err := New(tree, nil).BuildGraph().LongestPath()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if cycleErr.Total != 6 {
		t.Errorf("total = %d, want 6", cycleErr.Total)
	}
	if len(cycleErr.Cycles) != maxReportedCycles {
		t.Errorf("examples = %d, want %d", len(cycleErr.Cycles), maxReportedCycles)
	}
}

func TestTopologicalSortRespectsEdges(t *testing.T) {
	s := New(multiScopeTree(), nil)
	g := s.BuildGraph()

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != g.Size() {
		t.Fatalf("order has %d nodes, graph has %d", len(order), g.Size())
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, from := range g.Nodes() {
		for _, to := range g.Successors(from) {
			if pos[from] >= pos[to] {
				t.Errorf("%s should sort before %s", from, to)
			}
		}
	}
}

func TestLongestPathIsRealPath(t *testing.T) {
	s := New(multiScopeTree(), nil)
	g := s.BuildGraph()

	path, err := g.LongestPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) == 0 {
		t.Fatal("expected non-empty path")
	}
	for i := 0; i+1 < len(path); i++ {
		if !g.HasEdge(path[i], path[i+1]) {
			t.Errorf("consecutive pair %s -> %s is not a graph edge", path[i], path[i+1])
		}
	}
	// The roll-up chain spans every task here, so the path covers all 5.
	if len(path) != 5 {
		t.Errorf("path length = %d, want 5", len(path))
	}
}

func TestLongestPathPrefersHeavierBranch(t *testing.T) {
	// Two independent epics: E1 has one heavy task, E2 two light ones.
	tree := link(&models.Tree{
		Project: "branches",
		Phases: []models.Phase{{
			ID: "P1", Status: models.StatusPending,
			Milestones: []models.Milestone{{
				ID: "P1.M1", Status: models.StatusPending,
				Epics: []models.Epic{
					{
						ID: "P1.M1.E1", Status: models.StatusPending,
						Tasks: []models.Task{
							task("P1.M1.E1.T001", "heavy", 10, models.ComplexityLow),
						},
					},
					{
						ID: "P1.M1.E2", Status: models.StatusPending,
						Tasks: []models.Task{
							task("P1.M1.E2.T001", "light", 1, models.ComplexityLow),
							task("P1.M1.E2.T002", "light", 1, models.ComplexityLow),
						},
					},
				},
			}},
		}},
	})

	path, err := New(tree, nil).BuildGraph().LongestPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(path, []string{"P1.M1.E1.T001"}) {
		t.Errorf("path = %v, want the isolated heavy task", path)
	}
}

func TestLongestPathTieBreakIsFirstInserted(t *testing.T) {
	tree := link(&models.Tree{
		Project: "ties",
		Phases: []models.Phase{{
			ID: "P1", Status: models.StatusPending,
			Milestones: []models.Milestone{{
				ID: "P1.M1", Status: models.StatusPending,
				Epics: []models.Epic{
					{
						ID: "P1.M1.E1", Status: models.StatusPending,
						Tasks: []models.Task{task("P1.M1.E1.T001", "a", 3, models.ComplexityLow)},
					},
					{
						ID: "P1.M1.E2", Status: models.StatusPending,
						Tasks: []models.Task{task("P1.M1.E2.T001", "b", 3, models.ComplexityLow)},
					},
				},
			}},
		}},
	})

	path, err := New(tree, nil).BuildGraph().LongestPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(path, []string{"P1.M1.E1.T001"}) {
		t.Errorf("path = %v, want first-inserted tie winner", path)
	}
}

func TestLongestPathEmptyGraph(t *testing.T) {
	path, err := New(&models.Tree{}, nil).BuildGraph().LongestPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path, got %v", path)
	}
}

func containsID(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}
