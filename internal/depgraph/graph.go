// Package depgraph builds the import graph of a Go module.
//
// The graph is the analyzer behind dependency expectations: units are
// package import paths and edges are direct imports. Graphs are either
// loaded from a module on disk with Load, or assembled directly with New and
// AddImport (scenario files and tests do this).
package depgraph

import (
	"sort"
)

// Graph is a directed import graph. The zero value is not usable; call New.
type Graph struct {
	module  string
	imports map[string]map[string]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{imports: make(map[string]map[string]struct{})}
}

// FromMap builds a graph from an adjacency map of unit -> imports.
func FromMap(adjacency map[string][]string) *Graph {
	g := New()
	for unit, imports := range adjacency {
		g.AddImport(unit, imports...)
	}
	return g
}

// Module returns the module path the graph was loaded from, if any.
func (g *Graph) Module() string {
	return g.module
}

// AddUnit registers unit without edges.
func (g *Graph) AddUnit(unit string) {
	if _, ok := g.imports[unit]; !ok {
		g.imports[unit] = make(map[string]struct{})
	}
}

// AddImport records that from imports each of to.
func (g *Graph) AddImport(from string, to ...string) {
	g.AddUnit(from)
	for _, t := range to {
		if t == "" || t == from {
			continue
		}
		g.imports[from][t] = struct{}{}
	}
}

// Units returns every unit that has been added, sorted.
func (g *Graph) Units() []string {
	units := make([]string, 0, len(g.imports))
	for u := range g.imports {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// Imports returns the direct imports of unit, sorted.
func (g *Graph) Imports(unit string) []string {
	set := g.imports[unit]
	out := make([]string, 0, len(set))
	for imp := range set {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// Edges returns the number of import edges.
func (g *Graph) Edges() int {
	n := 0
	for _, set := range g.imports {
		n += len(set)
	}
	return n
}
