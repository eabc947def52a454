package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joshharrison/timeloom/internal/circuit"
)

// ErrCycle is returned when the dependency graph is not acyclic.
var ErrCycle = errors.New("dependency cycle")

// FromCircuit builds the dependency graph of c. Arcs follow program
// order, so the result is acyclic.
func FromCircuit(c *circuit.Circuit) *DAG {
	n := len(c.Instructions)
	g := &DAG{
		Circuit: c,
		Adj:     make([][]Arc, n),
		RevAdj:  make([][]Arc, n),
	}

	last := make(map[circuit.Wire]int)
	for i := range c.Instructions {
		for _, w := range c.Instructions[i].Wires() {
			if prev, ok := last[w]; ok {
				g.Adj[prev] = append(g.Adj[prev], Arc{Node: i, Wire: w})
				g.RevAdj[i] = append(g.RevAdj[i], Arc{Node: prev, Wire: w})
			}
			last[w] = i
		}
	}
	g.index()
	return g
}

// AddArc inserts an arc from -> to through wire w.
func (g *DAG) AddArc(from, to int, w circuit.Wire) {
	g.Adj[from] = append(g.Adj[from], Arc{Node: to, Wire: w})
	g.RevAdj[to] = append(g.RevAdj[to], Arc{Node: from, Wire: w})
	g.index()
}

func (g *DAG) index() {
	g.Roots = g.Roots[:0]
	g.Leaves = g.Leaves[:0]
	for i := range g.Adj {
		if len(g.RevAdj[i]) == 0 {
			g.Roots = append(g.Roots, i)
		}
		if len(g.Adj[i]) == 0 {
			g.Leaves = append(g.Leaves, i)
		}
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *DAG) NodeCount() int {
	return len(g.Adj)
}

// Successors returns the distinct successors of n in ascending order.
func (g *DAG) Successors(n int) []int {
	return distinct(g.Adj[n])
}

func distinct(arcs []Arc) []int {
	seen := make(map[int]bool, len(arcs))
	var out []int
	for _, a := range arcs {
		if !seen[a.Node] {
			seen[a.Node] = true
			out = append(out, a.Node)
		}
	}
	sort.Ints(out)
	return out
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *DAG) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, g.NodeCount())
	parent := make([]int, g.NodeCount())

	var dfs func(node int) []int
	dfs = func(node int) []int {
		color[node] = gray
		for _, next := range g.Successors(node) {
			if color[next] == gray {
				cycle := []int{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for id := range g.Adj {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoSort orders the nodes with Kahn's algorithm. Ready nodes are taken
// lowest index first, so an acyclic program graph sorts into program order.
func (g *DAG) TopoSort() ([]int, error) {
	n := g.NodeCount()
	inDegree := make([]int, n)
	for id := range g.RevAdj {
		inDegree[id] = len(g.RevAdj[id])
	}

	ready := &minQueue{}
	for id := 0; id < n; id++ {
		if inDegree[id] == 0 {
			ready.push(id)
		}
	}

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		node := ready.pop()
		order = append(order, node)

		for _, arc := range g.Adj[node] {
			inDegree[arc.Node]--
			if inDegree[arc.Node] == 0 {
				ready.push(arc.Node)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("topological sort: %w (%d of %d nodes sorted, cycle %v)", ErrCycle, len(order), n, g.DetectCycle())
	}
	return order, nil
}

// minQueue is a sorted ready list; program graphs are sparse enough that
// insertion into a slice beats a heap.
type minQueue struct{ items []int }

func (q *minQueue) Len() int { return len(q.items) }

func (q *minQueue) push(v int) {
	i := sort.SearchInts(q.items, v)
	q.items = append(q.items, 0)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = v
}

func (q *minQueue) pop() int {
	v := q.items[0]
	q.items = q.items[1:]
	return v
}
