package models

// Tree is the root of a loaded backlog: project metadata, the phase hierarchy,
// and the flat bug and idea collections. A Tree and everything under it is
// owned by a single load-compute-save cycle.
type Tree struct {
	Project string  `yaml:"project"`
	Phases  []Phase `yaml:"phases,omitempty"`
	Bugs    []Task  `yaml:"bugs,omitempty"`
	Ideas   []Task  `yaml:"ideas,omitempty"`
}

// AllTasks returns every schedulable unit in declaration order: hierarchical
// tasks first (phase, then milestone, then epic order), then bugs, then ideas.
// This order is the graph's node insertion order and therefore the
// deterministic tie-break order for the critical path solver.
func (t *Tree) AllTasks() []*Task {
	var out []*Task
	for pi := range t.Phases {
		phase := &t.Phases[pi]
		for mi := range phase.Milestones {
			milestone := &phase.Milestones[mi]
			for ei := range milestone.Epics {
				epic := &milestone.Epics[ei]
				for ti := range epic.Tasks {
					out = append(out, &epic.Tasks[ti])
				}
			}
		}
	}
	for i := range t.Bugs {
		out = append(out, &t.Bugs[i])
	}
	for i := range t.Ideas {
		out = append(out, &t.Ideas[i])
	}
	return out
}

// FindTask returns the unit with the given ID (hierarchical task, bug, or
// idea), or nil if absent.
func (t *Tree) FindTask(id string) *Task {
	for _, task := range t.AllTasks() {
		if task.ID == id {
			return task
		}
	}
	return nil
}

// FindEpic returns the epic with the given fully qualified ID, or nil.
func (t *Tree) FindEpic(id string) *Epic {
	for pi := range t.Phases {
		for mi := range t.Phases[pi].Milestones {
			milestone := &t.Phases[pi].Milestones[mi]
			for ei := range milestone.Epics {
				if milestone.Epics[ei].ID == id {
					return &milestone.Epics[ei]
				}
			}
		}
	}
	return nil
}

// FindMilestone returns the milestone with the given fully qualified ID, or nil.
func (t *Tree) FindMilestone(id string) *Milestone {
	for pi := range t.Phases {
		for mi := range t.Phases[pi].Milestones {
			if t.Phases[pi].Milestones[mi].ID == id {
				return &t.Phases[pi].Milestones[mi]
			}
		}
	}
	return nil
}

// FindPhase returns the phase with the given ID, or nil.
func (t *Tree) FindPhase(id string) *Phase {
	for i := range t.Phases {
		if t.Phases[i].ID == id {
			return &t.Phases[i]
		}
	}
	return nil
}
