package schedule

import (
	"fmt"
	"strings"
)

// maxReportedCycles caps how many example cycles a CycleError carries.
const maxReportedCycles = 5

// CycleError indicates the dependency graph is not a DAG. It is fatal: the
// caller must surface the offending cycles for a human to fix, never break
// them automatically.
type CycleError struct {
	// Cycles holds up to maxReportedCycles example cycles as ordered ID lists.
	Cycles [][]string
	// Total is the number of cycles found, which may exceed len(Cycles).
	Total int
}

func (e *CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dependency graph contains %d cycle(s)", e.Total)
	for _, cycle := range e.Cycles {
		b.WriteString("; ")
		b.WriteString(strings.Join(cycle, " -> "))
	}
	return b.String()
}

// findCycles enumerates cycles via depth-first search with coloring, one
// cycle per back edge. Nodes are visited in insertion order so the reported
// cycles are deterministic.
func (g *Graph) findCycles() ([][]string, int) {
	// Color states: 0 = unvisited, 1 = on the current path, 2 = done.
	colors := make(map[string]int, len(g.nodes))
	onPath := make(map[string]int) // node -> index in path
	var path []string
	var cycles [][]string
	total := 0

	var visit func(id string)
	visit = func(id string) {
		colors[id] = 1
		onPath[id] = len(path)
		path = append(path, id)

		for _, succ := range g.adj[id] {
			switch colors[succ] {
			case 1:
				// Back edge: the cycle is the path from succ to here.
				total++
				if len(cycles) < maxReportedCycles {
					start := onPath[succ]
					cycle := make([]string, len(path)-start)
					copy(cycle, path[start:])
					cycles = append(cycles, cycle)
				}
			case 0:
				visit(succ)
			}
		}

		path = path[:len(path)-1]
		delete(onPath, id)
		colors[id] = 2
	}

	for _, id := range g.nodes {
		if colors[id] == 0 {
			visit(id)
		}
	}
	return cycles, total
}

// TopologicalSort returns node IDs in an order where every dependency comes
// before its dependents, or a *CycleError if the graph is not a DAG. Kahn's
// algorithm with an insertion-ordered queue keeps the result stable.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		inDegree[id] = 0
	}
	for _, id := range g.nodes {
		for _, succ := range g.adj[id] {
			inDegree[succ]++
		}
	}

	var queue []string
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, succ := range g.adj[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(g.nodes) {
		cycles, total := g.findCycles()
		return nil, &CycleError{Cycles: cycles, Total: total}
	}
	return order, nil
}

// LongestPath returns the maximum-total-weight path through the graph as an
// ordered ID list, empty if the graph has no nodes. Ties in total weight are
// broken by node insertion order (first maximum wins).
func (g *Graph) LongestPath() ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return []string{}, nil
	}

	// Seeding every node with its own weight ranks isolated nodes correctly.
	dist := make(map[string]float64, len(order))
	parent := make(map[string]string, len(order))
	for _, id := range order {
		dist[id] = g.weights[id]
	}
	for _, from := range order {
		for _, to := range g.adj[from] {
			if candidate := dist[from] + g.weights[to]; candidate > dist[to] {
				dist[to] = candidate
				parent[to] = from
			}
		}
	}

	end := g.nodes[0]
	for _, id := range g.nodes {
		if dist[id] > dist[end] {
			end = id
		}
	}

	var path []string
	for cursor := end; ; {
		path = append(path, cursor)
		prev, ok := parent[cursor]
		if !ok {
			break
		}
		cursor = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
