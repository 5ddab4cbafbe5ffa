package schedule

import "github.com/ShayCichocki/foreman/pkg/models"

// Graph is a directed weighted dependency graph over unit IDs. An edge
// from -> to means "from must complete before to". Node and edge insertion
// order is preserved so that traversals, and therefore critical-path
// tie-breaks, are deterministic.
type Graph struct {
	nodes   []string
	weights map[string]float64
	adj     map[string][]string
	edgeSet map[string]map[string]struct{}
}

func newGraph() *Graph {
	return &Graph{
		weights: make(map[string]float64),
		adj:     make(map[string][]string),
		edgeSet: make(map[string]map[string]struct{}),
	}
}

func (g *Graph) addNode(id string, weight float64) {
	if _, ok := g.weights[id]; ok {
		return
	}
	g.nodes = append(g.nodes, id)
	g.weights[id] = weight
}

// addEdge records from -> to, ignoring duplicates and endpoints that are not
// registered nodes. Unresolvable dependency references therefore never create
// edges; availability checking handles them separately.
func (g *Graph) addEdge(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	if _, ok := g.weights[from]; !ok {
		return
	}
	if _, ok := g.weights[to]; !ok {
		return
	}
	if g.edgeSet[from] == nil {
		g.edgeSet[from] = make(map[string]struct{})
	}
	if _, dup := g.edgeSet[from][to]; dup {
		return
	}
	g.edgeSet[from][to] = struct{}{}
	g.adj[from] = append(g.adj[from], to)
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string { return g.nodes }

// Weight returns the node weight for id.
func (g *Graph) Weight(id string) float64 { return g.weights[id] }

// Successors returns the nodes id points at, in edge insertion order.
func (g *Graph) Successors(id string) []string { return g.adj[id] }

// HasEdge reports whether from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[from][to]
	return ok
}

// Size returns the number of nodes.
func (g *Graph) Size() int { return len(g.nodes) }

// BuildGraph constructs the dependency graph over every schedulable unit:
// hierarchical tasks, then bugs, then ideas, in declaration order.
//
// Edges come from four rules:
//  1. explicit task depends_on entries that resolve to known units,
//  2. the implicit chain between consecutive tasks of an epic when a task has
//     no explicit dependencies,
//  3. epic/milestone/phase depends_on entries rolled up to last-task ->
//     first-task edges between the two groups,
//  4. explicit depends_on entries on bugs and ideas (no implicit chain, no
//     roll-up for auxiliary units).
func (s *Scheduler) BuildGraph() *Graph {
	g := newGraph()
	for _, task := range s.tree.AllTasks() {
		g.addNode(task.ID, s.weight(task))
	}

	for pi := range s.tree.Phases {
		phase := &s.tree.Phases[pi]
		for mi := range phase.Milestones {
			milestone := &phase.Milestones[mi]
			for ei := range milestone.Epics {
				epic := &milestone.Epics[ei]
				for ti := range epic.Tasks {
					task := &epic.Tasks[ti]
					for _, depID := range task.DependsOn {
						if dep := s.resolveUnit(depID, task.EpicID); dep != nil {
							g.addEdge(dep.ID, task.ID)
						}
					}
					if len(task.DependsOn) == 0 && ti > 0 {
						g.addEdge(epic.Tasks[ti-1].ID, task.ID)
					}
				}

				for _, depID := range epic.DependsOn {
					dep := s.resolveEpic(depID, epic.MilestoneID)
					if dep == nil || len(dep.Tasks) == 0 || len(epic.Tasks) == 0 {
						continue
					}
					g.addEdge(dep.Tasks[len(dep.Tasks)-1].ID, epic.Tasks[0].ID)
				}
			}

			for _, depID := range milestone.DependsOn {
				dep := s.resolveMilestone(depID, milestone.PhaseID)
				if dep == nil {
					continue
				}
				g.addEdge(lastTaskID(milestoneTasks(dep)), firstTaskID(milestoneTasks(milestone)))
			}
		}

		for _, depID := range phase.DependsOn {
			dep := s.resolvePhase(depID)
			if dep == nil {
				continue
			}
			g.addEdge(lastTaskID(phaseTasks(dep)), firstTaskID(phaseTasks(phase)))
		}
	}

	for i := range s.tree.Bugs {
		bug := &s.tree.Bugs[i]
		for _, depID := range bug.DependsOn {
			if dep := s.resolveUnit(depID, ""); dep != nil {
				g.addEdge(dep.ID, bug.ID)
			}
		}
	}
	for i := range s.tree.Ideas {
		idea := &s.tree.Ideas[i]
		for _, depID := range idea.DependsOn {
			if dep := s.resolveUnit(depID, ""); dep != nil {
				g.addEdge(dep.ID, idea.ID)
			}
		}
	}

	return g
}

// milestoneTasks flattens a milestone's tasks in epic order.
func milestoneTasks(m *models.Milestone) []models.Task {
	var out []models.Task
	for _, epic := range m.Epics {
		out = append(out, epic.Tasks...)
	}
	return out
}

// phaseTasks flattens a phase's tasks in milestone, then epic order.
func phaseTasks(p *models.Phase) []models.Task {
	var out []models.Task
	for i := range p.Milestones {
		out = append(out, milestoneTasks(&p.Milestones[i])...)
	}
	return out
}

func firstTaskID(tasks []models.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	return tasks[0].ID
}

func lastTaskID(tasks []models.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	return tasks[len(tasks)-1].ID
}
