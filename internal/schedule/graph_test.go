package schedule

import (
	"testing"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// multiScopeTree builds two phases with roll-up dependencies at every level:
// P2 depends on P1, P1.M2 depends on M1, and P1.M1.E2 depends on E1.
func multiScopeTree() *models.Tree {
	return link(&models.Tree{
		Project: "rollups",
		Phases: []models.Phase{
			{
				ID: "P1", Name: "one", Status: models.StatusPending,
				Milestones: []models.Milestone{
					{
						ID: "P1.M1", Status: models.StatusPending,
						Epics: []models.Epic{
							{
								ID: "P1.M1.E1", Status: models.StatusPending,
								Tasks: []models.Task{
									task("P1.M1.E1.T001", "a", 1, models.ComplexityLow),
									task("P1.M1.E1.T002", "b", 1, models.ComplexityLow),
								},
							},
							{
								ID: "P1.M1.E2", Status: models.StatusPending,
								DependsOn: []string{"E1"},
								Tasks: []models.Task{
									task("P1.M1.E2.T001", "c", 1, models.ComplexityLow),
								},
							},
						},
					},
					{
						ID: "P1.M2", Status: models.StatusPending,
						DependsOn: []string{"M1"},
						Epics: []models.Epic{{
							ID: "P1.M2.E1", Status: models.StatusPending,
							Tasks: []models.Task{
								task("P1.M2.E1.T001", "d", 1, models.ComplexityLow),
							},
						}},
					},
				},
			},
			{
				ID: "P2", Name: "two", Status: models.StatusPending,
				DependsOn: []string{"P1"},
				Milestones: []models.Milestone{{
					ID: "P2.M1", Status: models.StatusPending,
					Epics: []models.Epic{{
						ID: "P2.M1.E1", Status: models.StatusPending,
						Tasks: []models.Task{
							task("P2.M1.E1.T001", "e", 1, models.ComplexityLow),
						},
					}},
				}},
			},
		},
	})
}

func TestBuildGraphRollupEdges(t *testing.T) {
	s := New(multiScopeTree(), nil)
	g := s.BuildGraph()

	cases := []struct {
		name     string
		from, to string
	}{
		{"epic rollup: last task of E1 -> first task of E2", "P1.M1.E1.T002", "P1.M1.E2.T001"},
		{"milestone rollup: last task of M1 -> first task of M2", "P1.M1.E2.T001", "P1.M2.E1.T001"},
		{"phase rollup: last task of P1 -> first task of P2", "P1.M2.E1.T001", "P2.M1.E1.T001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !g.HasEdge(tc.from, tc.to) {
				t.Errorf("missing edge %s -> %s", tc.from, tc.to)
			}
		})
	}
}

func TestBuildGraphExplicitDependency(t *testing.T) {
	tree := scenarioTree()
	epic := tree.FindEpic("P1.M1.E1")
	epic.Tasks = append(epic.Tasks, task("P1.M1.E1.T003", "third", 1, models.ComplexityLow, "P1.M1.E1.T001"))
	link(tree)

	g := New(tree, nil).BuildGraph()
	if !g.HasEdge("P1.M1.E1.T001", "P1.M1.E1.T003") {
		t.Error("expected explicit edge T001 -> T003")
	}
	// Explicit deps suppress the implicit chain.
	if g.HasEdge("P1.M1.E1.T002", "P1.M1.E1.T003") {
		t.Error("implicit edge should not exist when explicit deps are present")
	}
}

func TestBuildGraphScopeRelativeDependency(t *testing.T) {
	tree := scenarioTree()
	epic := tree.FindEpic("P1.M1.E1")
	epic.Tasks[1].DependsOn = []string{"T001"}
	link(tree)

	g := New(tree, nil).BuildGraph()
	if !g.HasEdge("P1.M1.E1.T001", "P1.M1.E1.T002") {
		t.Error("expected short-form dependency T001 to resolve within the epic")
	}
}

func TestBuildGraphDanglingDependencySkipped(t *testing.T) {
	tree := scenarioTree()
	tree.FindTask("P1.M1.E1.T002").DependsOn = []string{"P9.M9.E9.T999"}
	s := New(tree, nil)

	g := s.BuildGraph()
	if got := len(g.Successors("P1.M1.E1.T001")); got != 0 {
		t.Errorf("expected no edges, got %d", got)
	}
	// The same dangling reference blocks availability.
	available := s.FindAllAvailable()
	if !equalIDs(available, []string{"P1.M1.E1.T001"}) {
		t.Errorf("available = %v, want only T001", available)
	}
}

func TestBuildGraphAuxiliaryUnits(t *testing.T) {
	tree := scenarioTree()
	tree.Bugs = []models.Task{
		task("B1", "crash", 1, models.ComplexityLow, "P1.M1.E1.T001"),
		task("B2", "typo", 1, models.ComplexityLow),
	}
	tree.Ideas = []models.Task{
		task("I1", "someday", 1, models.ComplexityLow),
	}
	link(tree)

	g := New(tree, nil).BuildGraph()
	if g.Size() != 5 {
		t.Fatalf("expected 5 nodes, got %d", g.Size())
	}
	if !g.HasEdge("P1.M1.E1.T001", "B1") {
		t.Error("expected explicit edge T001 -> B1")
	}
	// Bugs and ideas get no implicit chain.
	if g.HasEdge("B1", "B2") {
		t.Error("auxiliary units must not get implicit edges")
	}
	if len(g.Successors("B2")) != 0 || len(g.Successors("I1")) != 0 {
		t.Error("auxiliary units without deps must be isolated")
	}
}

func TestBuildGraphEmptyEpicRollup(t *testing.T) {
	tree := multiScopeTree()
	tree.FindEpic("P1.M1.E1").Tasks = nil
	g := New(tree, nil).BuildGraph()
	// Roll-up against an empty dependency epic adds nothing and must not panic.
	for _, succs := range g.adj {
		for _, to := range succs {
			if to == "P1.M1.E2.T001" {
				t.Errorf("unexpected edge into E2's first task: %v", succs)
			}
		}
	}
}
