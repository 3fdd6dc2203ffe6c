// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package proj

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/tvl-fyi/conllx"
)

// IncompleteGraphError is returned when a sentence cannot be projected
// into a dependency graph because a token has a head but no dependency
// relation for it.
type IncompleteGraphError struct {
	Source int
	Target int
}

func (e *IncompleteGraphError) Error() string {
	return fmt.Sprintf("edge from %d to %d does not have a label", e.Source, e.Target)
}

// depEdge is a labeled edge from a head to one of its dependents.
type depEdge struct {
	from graph.Node
	to   graph.Node
	rel  string
}

func (e depEdge) From() graph.Node { return e.from }

func (e depEdge) To() graph.Node { return e.to }

func (e depEdge) ReversedEdge() graph.Edge {
	return depEdge{from: e.to, to: e.from, rel: e.rel}
}

// Edge identifies a dependency edge by the sentence positions of its
// endpoints.
type Edge struct {
	Source int
	Target int
}

func (e Edge) span() int {
	return max(e.Source, e.Target) - min(e.Source, e.Target)
}

// DepGraph is the dependency graph of a single sentence: nodes are the
// sentence positions 0..n, where node 0 is the artificial root, and
// each token with a head contributes one labeled edge from the head to
// the token.
//
// Graphs are mutated in place by the projectivity transformations and
// are not safe for concurrent use.
type DepGraph struct {
	g *simple.DirectedGraph
	n int
}

func newDepGraph(n int) *DepGraph {
	g := simple.NewDirectedGraph()
	for i := 0; i <= n; i++ {
		g.AddNode(simple.Node(i))
	}

	return &DepGraph{g: g, n: n}
}

// NumNodes returns the number of nodes in the graph, including the
// artificial root.
func (g *DepGraph) NumNodes() int {
	return g.n + 1
}

// Successors returns the direct dependents of a node in descending
// position order. This is the single traversal order used throughout
// the package; see BfsWithDepth for why the order is fixed.
func (g *DepGraph) Successors(id int64) []int64 {
	var succ []int64
	for it := g.g.From(id); it.Next(); {
		succ = append(succ, it.Node().ID())
	}

	slices.Sort(succ)
	slices.Reverse(succ)

	return succ
}

// headEdge returns the incoming edge of a node. Since the graph is a
// tree, there is at most one.
func (g *DepGraph) headEdge(node int) (depEdge, bool) {
	it := g.g.To(int64(node))
	if !it.Next() {
		return depEdge{}, false
	}

	return g.g.Edge(it.Node().ID(), int64(node)).(depEdge), true
}

func (g *DepGraph) setEdge(from, to int, rel string) {
	g.g.SetEdge(depEdge{
		from: simple.Node(from),
		to:   simple.Node(to),
		rel:  rel,
	})
}

func (g *DepGraph) removeEdge(from, to int) {
	g.g.RemoveEdge(int64(from), int64(to))
}

func (g *DepGraph) edgeRel(from, to int) string {
	return g.g.Edge(int64(from), int64(to)).(depEdge).rel
}

// edges returns all edges of the graph. The order is not specified.
func (g *DepGraph) edges() []depEdge {
	var edges []depEdge
	for it := g.g.Edges(); it.Next(); {
		edges = append(edges, it.Edge().(depEdge))
	}

	return edges
}

// SentenceToGraph projects a sentence into its dependency graph.
// Tokens without a head contribute no edge; a token with a head but no
// head relation is an IncompleteGraphError. The graph is not validated
// any further, the transformations assume a tree rooted at node 0.
func SentenceToGraph(sentence conllx.Sentence) (*DepGraph, error) {
	g := newDepGraph(len(sentence))

	for idx := range sentence {
		token := &sentence[idx]
		dependent := idx + 1

		head, ok := token.Head()
		if !ok {
			continue
		}

		headRel, ok := token.HeadRel()
		if !ok {
			return nil, &IncompleteGraphError{Source: head, Target: dependent}
		}

		g.setEdge(head, dependent, headRel)
	}

	return g, nil
}

// updateSentence clones a sentence and overwrites the head and head
// relation of every token that is the target of a graph edge.
func updateSentence(g *DepGraph, sentence conllx.Sentence) conllx.Sentence {
	updated := slices.Clone(sentence)

	for _, e := range g.edges() {
		token := &updated[e.to.ID()-1]
		token.SetHead(int(e.from.ID()))
		token.SetHeadRel(e.rel)
	}

	return updated
}
