// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package proj

// Neighborhood is the part of a directed graph that breadth-first
// traversal needs: enumeration of a node's direct successors in a
// fixed order.
type Neighborhood interface {
	Successors(id int64) []int64
}

// BfsWithDepth is a breadth-first walker that reports the depth at
// which each node is discovered. All nodes at depth d are produced
// before any node at depth d+1.
//
// Within a level, nodes are produced in the order in which their
// parents were visited, with each parent's successors in descending
// position order (see DepGraph.Successors). The order is part of the
// contract: the projectivity transformations break ties by it, and it
// is stable under the edge rewrites they perform.
//
// The traversal is iterative with two queues that are swapped at level
// boundaries, so deep trees do not consume stack.
type BfsWithDepth struct {
	g          Neighborhood
	cur        []int64
	next       []int64
	discovered map[int64]bool
	depth      int
}

// NewBfsWithDepth creates a walker over g starting at the given node,
// which is reported at depth 0.
func NewBfsWithDepth(g Neighborhood, start int64) *BfsWithDepth {
	return &BfsWithDepth{
		g:          g,
		cur:        []int64{start},
		discovered: map[int64]bool{start: true},
	}
}

// Next returns the next discovered node and its depth. The third
// return value is false when the traversal is exhausted.
func (b *BfsWithDepth) Next() (int64, int, bool) {
	if len(b.cur) == 0 && len(b.next) > 0 {
		b.cur, b.next = b.next, b.cur[:0]
		b.depth++
	}

	if len(b.cur) == 0 {
		return 0, 0, false
	}

	node := b.cur[0]
	b.cur = b.cur[1:]

	for _, succ := range b.g.Successors(node) {
		if !b.discovered[succ] {
			b.discovered[succ] = true
			b.next = append(b.next, succ)
		}
	}

	return node, b.depth, true
}

// nodeFiltered is a view of a graph that hides a single node, and with
// it everything only reachable through that node.
type nodeFiltered struct {
	g    Neighborhood
	skip int64
}

func (f nodeFiltered) Successors(id int64) []int64 {
	succ := f.g.Successors(id)
	filtered := succ[:0]

	for _, s := range succ {
		if s != f.skip {
			filtered = append(filtered, s)
		}
	}

	return filtered
}
