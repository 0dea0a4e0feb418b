// Package schedule holds the timeline algorithms: dependency cycle detection
// and the single-pass auto-scheduler. It does no I/O.
package schedule

import "github.com/google/uuid"

// Edge is a directed dependency edge: To depends on From.
type Edge struct {
	From uuid.UUID
	To   uuid.UUID
}

type graph struct {
	order []uuid.UUID
	adj   map[uuid.UUID][]uuid.UUID
}

func buildGraph(edges []Edge) *graph {
	g := &graph{adj: make(map[uuid.UUID][]uuid.UUID)}
	seen := make(map[uuid.UUID]bool)
	add := func(n uuid.UUID) {
		if !seen[n] {
			seen[n] = true
			g.order = append(g.order, n)
		}
	}
	for _, e := range edges {
		add(e.From)
		add(e.To)
		g.adj[e.From] = append(g.adj[e.From], e.To)
	}
	return g
}

// FindCycle returns the nodes of one cycle in edges (first node repeated at the
// end), or nil when the graph is acyclic.
func FindCycle(edges []Edge) []uuid.UUID {
	g := buildGraph(edges)
	visited := make(map[uuid.UUID]bool, len(g.order))
	onStack := make(map[uuid.UUID]bool)
	var stack []uuid.UUID

	var visit func(n uuid.UUID) []uuid.UUID
	visit = func(n uuid.UUID) []uuid.UUID {
		visited[n] = true
		onStack[n] = true
		stack = append(stack, n)
		for _, next := range g.adj[n] {
			if onStack[next] {
				// back edge: the cycle is the stack suffix starting at next
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := append([]uuid.UUID{}, stack[i:]...)
						return append(cycle, next)
					}
				}
			}
			if !visited[next] {
				if c := visit(next); c != nil {
					return c
				}
			}
		}
		onStack[n] = false
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, n := range g.order {
		if visited[n] {
			continue
		}
		if c := visit(n); c != nil {
			return c
		}
	}
	return nil
}

// WouldCreateCycle reports whether adding candidate to existing closes a cycle.
// The check is recomputed from scratch on every call.
func WouldCreateCycle(existing []Edge, candidate Edge) bool {
	if candidate.From == candidate.To {
		return true
	}
	edges := make([]Edge, 0, len(existing)+1)
	edges = append(edges, existing...)
	edges = append(edges, candidate)
	return FindCycle(edges) != nil
}
