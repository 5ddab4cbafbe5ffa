package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ShayCichocki/foreman/pkg/models"
)

const sampleBacklog = `project: demo
phases:
  - id: P1
    name: Phase 1
    priority: high
    milestones:
      - id: P1.M1
        name: Milestone 1
        epics:
          - id: P1.M1.E1
            name: Epic 1
            tasks:
              - id: P1.M1.E1.T001
                title: first
                estimate_hours: 2
                complexity: low
                priority: medium
              - id: P1.M1.E1.T002
                title: second
                estimate_hours: 4
                complexity: high
                priority: medium
bugs:
  - id: B1
    title: crash on save
    estimate_hours: 1
    complexity: low
    priority: critical
ideas:
  - id: I1
    title: dark mode
    estimate_hours: 8
    complexity: medium
    priority: low
`

func writeBacklog(t *testing.T, content string) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), DataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, BacklogFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(dir)
}

func TestLoadNormalizesTree(t *testing.T) {
	s := writeBacklog(t, sampleBacklog)
	tree, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task := tree.FindTask("P1.M1.E1.T001")
	if task == nil {
		t.Fatal("expected T001")
	}
	if task.Status != models.StatusPending {
		t.Errorf("status should default to pending, got %s", task.Status)
	}
	if task.EpicID != "P1.M1.E1" || task.MilestoneID != "P1.M1" || task.PhaseID != "P1" {
		t.Errorf("parent IDs not filled: %+v", task)
	}
	if task.Kind != models.KindTask {
		t.Errorf("kind = %v, want task", task.Kind)
	}
	if bug := tree.FindTask("B1"); bug == nil || bug.Kind != models.KindBug {
		t.Error("bug should be tagged KindBug at load time")
	}
	if idea := tree.FindTask("I1"); idea == nil || idea.Kind != models.KindIdea {
		t.Error("idea should be tagged KindIdea at load time")
	}
}

func TestLoadRejectsMalformedData(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"duplicate id", `project: x
phases:
  - id: P1
    milestones:
      - id: P1.M1
        epics:
          - id: P1.M1.E1
            tasks:
              - id: P1.M1.E1.T001
              - id: P1.M1.E1.T001
`},
		{"bad prefix", `project: x
phases:
  - id: P1
    milestones:
      - id: P2.M1
`},
		{"negative estimate", `project: x
bugs:
  - id: B1
    estimate_hours: -2
`},
		{"unknown status", `project: x
bugs:
  - id: B1
    status: napping
`},
		{"not yaml", "{{{"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := writeBacklog(t, tc.content)
			if _, err := s.Load(); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestLoadMissingBacklog(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), DataDirName))
	if _, err := s.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s := writeBacklog(t, sampleBacklog)
	tree, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := tree.FindTask("P1.M1.E1.T001").Claim("agent-7", now); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(tree); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	task := reloaded.FindTask("P1.M1.E1.T001")
	if task.Status != models.StatusInProgress || task.ClaimedBy != "agent-7" {
		t.Errorf("claim not persisted: %+v", task)
	}
	if task.ClaimedAt == nil || !task.ClaimedAt.Equal(now) {
		t.Errorf("claimed_at not persisted: %v", task.ClaimedAt)
	}
}

func TestInitAndFind(t *testing.T) {
	root := t.TempDir()
	s := New(filepath.Join(root, DataDirName))
	if err := s.Init("demo"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Init("demo"); err == nil {
		t.Error("second init should fail")
	}

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	found, err := Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != s.Dir() {
		t.Errorf("found %s, want %s", found, s.Dir())
	}

	if _, err := Find(t.TempDir()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestReclaimStale(t *testing.T) {
	s := writeBacklog(t, sampleBacklog)
	tree, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-3 * time.Hour)
	fresh := now.Add(-10 * time.Minute)
	if err := tree.FindTask("P1.M1.E1.T001").Claim("gone-agent", old); err != nil {
		t.Fatal(err)
	}
	if err := tree.FindTask("B1").Claim("busy-agent", fresh); err != nil {
		t.Fatal(err)
	}

	stale := FindStaleClaims(tree, DefaultStaleClaimAge, now)
	if len(stale) != 1 || stale[0].ID != "P1.M1.E1.T001" {
		t.Fatalf("stale = %v, want only T001", stale)
	}

	reclaimed, err := ReclaimStale(tree, DefaultStaleClaimAge, now)
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if len(reclaimed) != 1 || reclaimed[0] != "P1.M1.E1.T001" {
		t.Errorf("reclaimed = %v, want [T001]", reclaimed)
	}
	task := tree.FindTask("P1.M1.E1.T001")
	if task.Status != models.StatusPending || task.Claimed() {
		t.Errorf("task not reset: %+v", task)
	}
	if bug := tree.FindTask("B1"); bug.Status != models.StatusInProgress {
		t.Error("fresh claim should be untouched")
	}
}

func TestNextIDs(t *testing.T) {
	s := writeBacklog(t, sampleBacklog)
	tree, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	if got := NextPhaseID(tree); got != "P2" {
		t.Errorf("NextPhaseID = %s, want P2", got)
	}
	if got := NextMilestoneID(tree.FindPhase("P1")); got != "P1.M2" {
		t.Errorf("NextMilestoneID = %s, want P1.M2", got)
	}
	if got := NextEpicID(tree.FindMilestone("P1.M1")); got != "P1.M1.E2" {
		t.Errorf("NextEpicID = %s, want P1.M1.E2", got)
	}
	if got := NextTaskID(tree.FindEpic("P1.M1.E1")); got != "P1.M1.E1.T003" {
		t.Errorf("NextTaskID = %s, want P1.M1.E1.T003", got)
	}
	if got := NextBugID(tree); got != "B2" {
		t.Errorf("NextBugID = %s, want B2", got)
	}
	if got := NextIdeaID(tree); got != "I2" {
		t.Errorf("NextIdeaID = %s, want I2", got)
	}

	empty := &models.Tree{}
	if got := NextBugID(empty); got != "B1" {
		t.Errorf("NextBugID on empty tree = %s, want B1", got)
	}
}
