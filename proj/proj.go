// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// Package proj implements the pseudo-projective transformation of
// dependency trees described in *Pseudo-Projective Dependency
// Parsing*, Nivre and Nilsson, 2005.
//
// Projectivization repeatedly lifts the shortest non-projective edge
// to the grandparent of its dependent until the tree is projective.
// The first lift of a token encodes the dependency relation of its
// original head into the lifted relation ("head" marking), so the
// transformation can later be inverted by deprojectivization.
package proj

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tvl-fyi/conllx"
)

// Projectivizer transforms dependency trees into projective trees.
type Projectivizer interface {
	Projectivize(sentence conllx.Sentence) (conllx.Sentence, error)
}

// Deprojectivizer inverts a pseudo-projective transformation.
type Deprojectivizer interface {
	Deprojectivize(sentence conllx.Sentence) (conllx.Sentence, error)
}

// HeadProjectivizer (de)projectivizes dependency trees using the
// 'head' marking strategy: a lifted edge carries the relation of the
// dependent's original head, separated from the real relation by a
// vertical bar.
type HeadProjectivizer struct{}

// NewHeadProjectivizer creates a projectivizer using the head marking
// strategy.
func NewHeadProjectivizer() *HeadProjectivizer {
	return &HeadProjectivizer{}
}

// NonProjectiveEdges returns the non-projective edges of a graph,
// ordered by ascending span length. Edges with the same span length
// are ordered by the position of their source.
//
// An edge i -> k is projective iff every position j strictly between i
// and k is reachable from i.
func NonProjectiveEdges(g *DepGraph) []Edge {
	var nonProjective []Edge

	for i := 0; i < g.NumNodes(); i++ {
		reachable := make(map[int64]bool)
		bfs := NewBfsWithDepth(g, int64(i))
		for {
			node, _, ok := bfs.Next()
			if !ok {
				break
			}

			reachable[node] = true
		}

		for _, succ := range g.Successors(int64(i)) {
			k := int(succ)
			for j := min(i, k); j < max(i, k); j++ {
				if !reachable[int64(j)] {
					nonProjective = append(nonProjective, Edge{Source: i, Target: k})
					break
				}
			}
		}
	}

	sort.SliceStable(nonProjective, func(a, b int) bool {
		return nonProjective[a].span() < nonProjective[b].span()
	})

	return nonProjective
}

// Projectivize lifts non-projective edges until the dependency tree of
// the sentence is projective. Lifted tokens carry their original
// head's relation in their dependency relation.
func (p *HeadProjectivizer) Projectivize(sentence conllx.Sentence) (conllx.Sentence, error) {
	g, err := SentenceToGraph(sentence)
	if err != nil {
		return nil, err
	}

	lifted := make(map[int]bool)

	// Lift non-projective edges until there are no non-projective
	// edges left. Every lift moves an edge closer to the root, so
	// the loop terminates.
	for {
		npEdges := NonProjectiveEdges(g)
		if len(npEdges) == 0 {
			break
		}

		if err := p.lift(g, lifted, npEdges[0]); err != nil {
			return nil, err
		}
	}

	return updateSentence(g, sentence), nil
}

// lift reattaches the given edge to the parent of its source. On the
// first lift of a dependent, the relation of its original head is
// appended to the edge relation; subsequent lifts only move the
// attachment point further up.
func (p *HeadProjectivizer) lift(g *DepGraph, lifted map[int]bool, e Edge) error {
	parentEdge, ok := g.headEdge(e.Source)
	if !ok {
		// The source has no parent to lift to. Since the root is
		// never the source of a non-projective edge, this means
		// the input was not a connected tree.
		return fmt.Errorf("cannot lift edge %d -> %d: node %d has no incoming edge",
			e.Source, e.Target, e.Source)
	}

	rel := g.edgeRel(e.Source, e.Target)
	g.removeEdge(e.Source, e.Target)

	parent := int(parentEdge.from.ID())
	if lifted[e.Target] {
		g.setEdge(parent, e.Target, rel)
	} else {
		g.setEdge(parent, e.Target, rel+"|"+parentEdge.rel)
		lifted[e.Target] = true
	}

	return nil
}

// Deprojectivize reattaches tokens that were lifted during
// projectivization to a descendant of their projective head, guided by
// the head relations encoded in their dependency relations.
//
// Tokens for which no attachment point can be found keep their
// projective head, with the encoding stripped from their relation.
// This is a degraded but defined outcome, not an error.
func (p *HeadProjectivizer) Deprojectivize(sentence conllx.Sentence) (conllx.Sentence, error) {
	g, err := SentenceToGraph(sentence)
	if err != nil {
		return nil, err
	}

	// Find lifted tokens and strip the head encoding from their
	// relations.
	prefHeadRels := p.prepareDeproj(g)
	if len(prefHeadRels) == 0 {
		return updateSentence(g, sentence), nil
	}

	// Collect the lifted tokens in breadth-first order, so that
	// shallow tokens are reattached first.
	var liftedSorted []int
	bfs := NewBfsWithDepth(g, 0)
	for {
		node, _, ok := bfs.Next()
		if !ok {
			break
		}

		if _, lifted := prefHeadRels[int(node)]; lifted {
			liftedSorted = append(liftedSorted, int(node))
		}
	}

	// Reattach one token at a time until no more progress is made.
	// Tokens that cannot be reattached stay with their projective
	// head.
	for {
		idx, ok := p.deprojectivizeNext(g, liftedSorted, prefHeadRels)
		if !ok {
			break
		}

		liftedSorted = append(liftedSorted[:idx], liftedSorted[idx+1:]...)
	}

	return updateSentence(g, sentence), nil
}

// prepareDeproj rewrites every edge whose relation contains a head
// encoding to its bare relation and returns the encoded preferred head
// relation per dependent.
func (p *HeadProjectivizer) prepareDeproj(g *DepGraph) map[int]string {
	prefHeadRels := make(map[int]string)

	for _, e := range g.edges() {
		rel, prefRel, found := strings.Cut(e.rel, "|")
		if !found {
			continue
		}

		prefHeadRels[int(e.to.ID())] = prefRel
		g.setEdge(int(e.from.ID()), int(e.to.ID()), rel)
	}

	return prefHeadRels
}

// deprojectivizeNext reattaches the first lifted token for which an
// attachment point exists and returns its index in liftedSorted.
func (p *HeadProjectivizer) deprojectivizeNext(
	g *DepGraph,
	liftedSorted []int,
	prefHeadRels map[int]string,
) (int, bool) {
	for idx, liftedNode := range liftedSorted {
		headEdge, ok := g.headEdge(liftedNode)
		if !ok {
			continue
		}

		curHead := int(headEdge.from.ID())
		newHead, ok := p.searchAttachmentPoint(g, curHead, liftedNode, prefHeadRels[liftedNode])
		if !ok {
			continue
		}

		g.removeEdge(curHead, liftedNode)
		g.setEdge(newHead, liftedNode, headEdge.rel)

		return idx, true
	}

	return 0, false
}

// searchAttachmentPoint finds the node that a lifted token should be
// reattached to among the descendants of its current head:
//
//  1. the node is attached to its own head with the preferred head
//     relation of the lifted token,
//  2. the node is neither the lifted token nor one of its descendants,
//  3. the node is as shallow in the tree as possible.
//
// Among the candidates at the shallowest depth, the one closest to the
// current head of the lifted token wins.
func (p *HeadProjectivizer) searchAttachmentPoint(
	g *DepGraph,
	curHead int,
	liftedNode int,
	prefHeadRel string,
) (int, bool) {
	// Hiding the lifted node from the traversal excludes it and its
	// whole subtree, which are only reachable through it.
	view := nodeFiltered{g: g, skip: int64(liftedNode)}

	bfs := NewBfsWithDepth(view, int64(curHead))
	bfs.Next() // The current head itself is not a candidate.

	best := 0
	bestDist := -1
	levelDepth := 0

	for {
		node, depth, ok := bfs.Next()

		// A level is complete once the traversal moves past it (or
		// ends). Stop at the first level that produced a candidate.
		if (!ok || depth != levelDepth) && bestDist >= 0 {
			return best, true
		}
		if !ok {
			return 0, false
		}
		levelDepth = depth

		if e, ok := g.headEdge(int(node)); !ok || e.rel != prefHeadRel {
			continue
		}

		dist := max(int(node), curHead) - min(int(node), curHead)
		if bestDist < 0 || dist < bestDist {
			best = int(node)
			bestDist = dist
		}
	}
}
