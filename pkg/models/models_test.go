package models

import "testing"

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusPending, StatusInProgress, StatusDone, StatusBlocked, StatusRejected, StatusCancelled}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("paused").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestValidateStatusTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"claim", StatusPending, StatusInProgress, false},
		{"complete", StatusInProgress, StatusDone, false},
		{"unclaim", StatusInProgress, StatusPending, false},
		{"reopen", StatusDone, StatusPending, false},
		{"block pending", StatusPending, StatusBlocked, false},
		{"unblock", StatusBlocked, StatusPending, false},
		{"same status", StatusPending, StatusPending, false},
		{"done to in_progress", StatusDone, StatusInProgress, true},
		{"rejected is terminal", StatusRejected, StatusPending, true},
		{"cancelled is terminal", StatusCancelled, StatusInProgress, true},
		{"unknown current", Status("nope"), StatusPending, true},
		{"unknown next", StatusPending, Status("nope"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStatusTransition(tc.from, tc.to)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateStatusTransition(%q, %q) = %v, wantErr=%v", tc.from, tc.to, err, tc.wantErr)
			}
		})
	}
}

func TestParseUnitPath(t *testing.T) {
	cases := []struct {
		id      string
		depth   int
		wantErr bool
	}{
		{"P1", 1, false},
		{"P2.M3", 2, false},
		{"P1.M1.E1", 3, false},
		{"P1.M1.E1.T001", 4, false},
		{"B1", 0, true},
		{"I2", 0, true},
		{"P1.E1", 0, true},
		{"", 0, true},
		{"M1.E1", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			path, err := ParseUnitPath(tc.id)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path.Depth() != tc.depth {
				t.Errorf("depth = %d, want %d", path.Depth(), tc.depth)
			}
		})
	}
}

func TestParseUnitPathComponents(t *testing.T) {
	path, err := ParseUnitPath("P1.M2.E3.T004")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path.Phase != "P1" || path.Milestone != "P1.M2" || path.Epic != "P1.M2.E3" || path.Task != "P1.M2.E3.T004" {
		t.Errorf("unexpected components: %+v", path)
	}
}

func TestValidUnitID(t *testing.T) {
	for _, id := range []string{"P1", "P1.M1.E1.T001", "B12", "I3", "T001", "E2", "M1"} {
		if !ValidUnitID(id) {
			t.Errorf("%q should be valid", id)
		}
	}
	for _, id := range []string{"", "X1", "P1.", "task-1", "B"} {
		if ValidUnitID(id) {
			t.Errorf("%q should be invalid", id)
		}
	}
}

func treeFixture() *Tree {
	return &Tree{
		Project: "fixture",
		Phases: []Phase{{
			ID: "P1",
			Milestones: []Milestone{{
				ID: "P1.M1",
				Epics: []Epic{{
					ID: "P1.M1.E1",
					Tasks: []Task{
						{ID: "P1.M1.E1.T001", Status: StatusPending},
						{ID: "P1.M1.E1.T002", Status: StatusPending},
					},
				}},
			}},
		}},
		Bugs:  []Task{{ID: "B1", Status: StatusPending}},
		Ideas: []Task{{ID: "I1", Status: StatusPending}},
	}
}

func TestAllTasksOrder(t *testing.T) {
	tree := treeFixture()
	var ids []string
	for _, task := range tree.AllTasks() {
		ids = append(ids, task.ID)
	}
	want := []string{"P1.M1.E1.T001", "P1.M1.E1.T002", "B1", "I1"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestFindersReturnPointersIntoTree(t *testing.T) {
	tree := treeFixture()

	task := tree.FindTask("B1")
	if task == nil {
		t.Fatal("expected to find B1")
	}
	task.Status = StatusDone
	if tree.Bugs[0].Status != StatusDone {
		t.Error("FindTask should return a pointer into the tree")
	}

	if tree.FindEpic("P1.M1.E1") == nil {
		t.Error("expected to find epic")
	}
	if tree.FindMilestone("P1.M1") == nil {
		t.Error("expected to find milestone")
	}
	if tree.FindPhase("P1") == nil {
		t.Error("expected to find phase")
	}
	if tree.FindTask("missing") != nil || tree.FindEpic("missing") != nil {
		t.Error("missing IDs should return nil")
	}
}
