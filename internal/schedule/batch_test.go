package schedule

import (
	"testing"

	"github.com/ShayCichocki/foreman/pkg/models"
)

func siblingTree() *models.Tree {
	return link(&models.Tree{
		Project: "siblings",
		Phases: []models.Phase{{
			ID: "P1", Status: models.StatusPending,
			Milestones: []models.Milestone{{
				ID: "P1.M1", Status: models.StatusPending,
				Epics: []models.Epic{{
					ID: "P1.M1.E1", Status: models.StatusPending,
					Tasks: []models.Task{
						task("P1.M1.E1.T001", "one", 1, models.ComplexityLow),
						task("P1.M1.E1.T002", "two", 1, models.ComplexityLow),
						task("P1.M1.E1.T003", "three", 1, models.ComplexityLow),
					},
				}},
			}},
		}},
	})
}

func TestFindSiblingTasksSequentialChain(t *testing.T) {
	s := New(siblingTree(), nil)

	// T2 and T3 are only batch-satisfiable because the batch is assumed to
	// complete in order, seeded with T1.
	got, err := s.FindSiblingTasks("P1.M1.E1.T001", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(got, []string{"P1.M1.E1.T002", "P1.M1.E1.T003"}) {
		t.Errorf("siblings = %v, want [T002 T003]", got)
	}
}

func TestFindSiblingTasksCountLimits(t *testing.T) {
	s := New(siblingTree(), nil)

	got, err := s.FindSiblingTasks("P1.M1.E1.T001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(got, []string{"P1.M1.E1.T002"}) {
		t.Errorf("siblings = %v, want [T002]", got)
	}

	got, err = s.FindSiblingTasks("P1.M1.E1.T001", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("count 0 should return nothing, got %v", got)
	}
}

func TestFindSiblingTasksSkipsClaimedAndNonPending(t *testing.T) {
	tree := siblingTree()
	tree.FindTask("P1.M1.E1.T002").ClaimedBy = "agent-x"
	s := New(tree, nil)

	got, err := s.FindSiblingTasks("P1.M1.E1.T001", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// T003's implicit dependency T002 is neither done nor in the batch.
	if len(got) != 0 {
		t.Errorf("siblings = %v, want none past a claimed task", got)
	}
}

func TestFindSiblingTasksRollupNotRelaxed(t *testing.T) {
	tree := multiScopeTree()
	// Make E2's task follow a sibling of an epic whose roll-up is unmet.
	epic := tree.FindEpic("P1.M1.E2")
	epic.Tasks = append(epic.Tasks, task("P1.M1.E2.T002", "extra", 1, models.ComplexityLow))
	link(tree)
	s := New(tree, nil)

	// E2 depends on E1, which is not complete; batch membership must not
	// relax the roll-up even with T001 seeded.
	got, err := s.FindSiblingTasks("P1.M1.E2.T001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("siblings = %v, want none while epic roll-up unmet", got)
	}
}

func TestFindSiblingTasksUnknownPrimary(t *testing.T) {
	s := New(siblingTree(), nil)
	if _, err := s.FindSiblingTasks("P9.M9.E9.T999", 1); err == nil {
		t.Error("expected error for unknown primary")
	}
}

// diverseTree spreads one single-task epic across each of three phases.
func diverseTree() *models.Tree {
	phase := func(p string) models.Phase {
		return models.Phase{
			ID: p, Status: models.StatusPending,
			Milestones: []models.Milestone{{
				ID: p + ".M1", Status: models.StatusPending,
				Epics: []models.Epic{{
					ID: p + ".M1.E1", Status: models.StatusPending,
					Tasks: []models.Task{
						task(p+".M1.E1.T001", "work", 1, models.ComplexityLow),
					},
				}},
			}},
		}
	}
	return link(&models.Tree{
		Project: "diverse",
		Phases:  []models.Phase{phase("P1"), phase("P2"), phase("P3")},
	})
}

func TestFindIndependentTasksPrefersOtherPhases(t *testing.T) {
	s := New(diverseTree(), nil)

	got, err := s.FindIndependentTasks("P1.M1.E1.T001", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 picks, got %v", got)
	}
	for _, id := range got {
		if id == "P1.M1.E1.T001" {
			t.Error("primary must never be selected")
		}
		unit := s.tree.FindTask(id)
		if unit.EpicID == "P1.M1.E1" {
			t.Errorf("%s shares the primary's epic", id)
		}
	}
	if !equalIDs(got, []string{"P2.M1.E1.T001", "P3.M1.E1.T001"}) {
		t.Errorf("picks = %v, want the two other phases", got)
	}
}

func TestFindIndependentTasksDiversityBeatsSameMilestone(t *testing.T) {
	tree := diverseTree()
	// Add a second epic next to the primary: available, but same milestone.
	m := tree.FindMilestone("P1.M1")
	m.Epics = append(m.Epics, models.Epic{
		ID: "P1.M1.E2", Status: models.StatusPending,
		Tasks: []models.Task{task("P1.M1.E2.T001", "near", 1, models.ComplexityLow)},
	})
	link(tree)
	s := New(tree, nil)

	got, err := s.FindIndependentTasks("P1.M1.E1.T001", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Cross-phase picks score +1000 each; the same-milestone epic only +10.
	if containsID(got, "P1.M1.E2.T001") {
		t.Errorf("picks = %v, should prefer other phases over a sibling epic", got)
	}
}

func TestFindIndependentTasksSkipsDependencyRelated(t *testing.T) {
	tree := diverseTree()
	tree.FindTask("P2.M1.E1.T001").DependsOn = []string{"P1.M1.E1.T001"}
	s := New(tree, nil)

	got, err := s.FindIndependentTasks("P1.M1.E1.T001", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsID(got, "P2.M1.E1.T001") {
		t.Errorf("picks = %v, dependency-related candidate must be excluded", got)
	}
}

func TestFindIndependentTasksChainTraversal(t *testing.T) {
	tree := diverseTree()
	// P3's task depends on P2's, which depends on the primary: the transitive
	// chain should rule out both.
	tree.FindTask("P2.M1.E1.T001").DependsOn = []string{"P1.M1.E1.T001"}
	tree.FindTask("P3.M1.E1.T001").DependsOn = []string{"P2.M1.E1.T001"}
	s := New(tree, nil)

	got, err := s.FindIndependentTasks("P1.M1.E1.T001", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("picks = %v, want none", got)
	}
}

func TestInDependencyChainCycleSafe(t *testing.T) {
	tree := diverseTree()
	tree.FindTask("P2.M1.E1.T001").DependsOn = []string{"P3.M1.E1.T001"}
	tree.FindTask("P3.M1.E1.T001").DependsOn = []string{"P2.M1.E1.T001"}
	s := New(tree, nil)

	// The walk must terminate despite the dependency cycle.
	if s.inDependencyChain(tree.FindTask("P2.M1.E1.T001"), "P1.M1.E1.T001") {
		t.Error("chain should not reach an unrelated task")
	}
}
