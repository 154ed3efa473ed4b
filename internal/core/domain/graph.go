package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph over one build's invocations. Edges are
// derived from declared paths: an invocation depends on the producer of
// each of its inputs, phony inputs, input dependencies, and order
// dependencies. Insertion order is preserved and used as the deterministic
// tie-break wherever several invocations are equally ready.
type Graph struct {
	invocations []*Invocation
	producers   map[string]int

	// Populated by Validate.
	dependencies [][]int
	dependents   [][]int
	order        []int
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		producers: make(map[string]int),
	}
}

// Add appends an invocation to the graph. Every output path must be
// produced by exactly one invocation; a second producer for the same path
// is a build-description error.
func (g *Graph) Add(inv *Invocation) error {
	index := len(g.invocations)
	for _, output := range inv.Outputs {
		if prev, exists := g.producers[output]; exists {
			return zerr.With(zerr.With(ErrDuplicateOutput, "output", output),
				"producers", g.invocations[prev].Title()+", "+inv.Title())
		}
	}
	for _, output := range inv.Outputs {
		g.producers[output] = index
	}
	g.invocations = append(g.invocations, inv)
	return nil
}

// Producer returns the index of the invocation producing the given path,
// or -1 if the path is a source file no invocation produces.
func (g *Graph) Producer(path string) int {
	if index, ok := g.producers[path]; ok {
		return index
	}
	return -1
}

// Len returns the number of invocations in the graph.
func (g *Graph) Len() int {
	return len(g.invocations)
}

// Invocation returns the invocation at the given insertion index.
func (g *Graph) Invocation(index int) *Invocation {
	return g.invocations[index]
}

// Validate derives the edge lists and rejects cyclic graphs. It must be
// called, and must succeed, before any invocation executes.
func (g *Graph) Validate() error {
	g.dependencies = make([][]int, len(g.invocations))
	g.dependents = make([][]int, len(g.invocations))

	for index, inv := range g.invocations {
		seen := make(map[int]bool)
		for _, paths := range [][]string{inv.Inputs, inv.PhonyInputs, inv.InputDependencies, inv.OrderDependencies} {
			for _, path := range paths {
				producer, ok := g.producers[path]
				if !ok || producer == index || seen[producer] {
					continue
				}
				seen[producer] = true
				g.dependencies[index] = append(g.dependencies[index], producer)
				g.dependents[producer] = append(g.dependents[producer], index)
			}
		}
	}

	return g.sort()
}

// sort computes a topological order, stable with respect to insertion
// order, and reports any cycle.
func (g *Graph) sort() error {
	const (
		unvisited = iota
		visiting
		visited
	)

	state := make([]int, len(g.invocations))
	g.order = make([]int, 0, len(g.invocations))
	var path []int

	var visit func(index int) error
	visit = func(index int) error {
		state[index] = visiting
		path = append(path, index)

		for _, dep := range g.dependencies[index] {
			switch state[dep] {
			case visiting:
				return g.cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[index] = visited
		path = path[:len(path)-1]
		g.order = append(g.order, index)
		return nil
	}

	for index := range g.invocations {
		if state[index] == unvisited {
			if err := visit(index); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleError constructs an error carrying the cycle path as metadata.
func (g *Graph) cycleError(path []int, repeated int) error {
	start := 0
	for i, index := range path {
		if index == repeated {
			start = i
			break
		}
	}
	var names []string
	for _, index := range path[start:] {
		names = append(names, g.invocations[index].Title())
	}
	names = append(names, g.invocations[repeated].Title())
	return zerr.With(ErrDependencyCycle, "cycle", strings.Join(names, " -> "))
}

// Dependencies returns the predecessor indices of the given invocation.
// Valid only after Validate.
func (g *Graph) Dependencies(index int) []int {
	return g.dependencies[index]
}

// Dependents returns the successor indices of the given invocation.
// Valid only after Validate.
func (g *Graph) Dependents(index int) []int {
	return g.dependents[index]
}

// Walk returns an iterator yielding (index, invocation) in topological
// order. It assumes Validate has been called and returned nil.
func (g *Graph) Walk() iter.Seq2[int, *Invocation] {
	return func(yield func(int, *Invocation) bool) {
		for _, index := range g.order {
			if !yield(index, g.invocations[index]) {
				return
			}
		}
	}
}
