// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"cmp"
	"iter"
	"slices"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

// Level yields species breadth-first, root first.
func (t *Tree) Level() iter.Seq[*catalog.Species] {
	return func(yield func(*catalog.Species) bool) {
		if t.root == nil {
			return
		}
		queue := []*Node{t.root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if !yield(n.Species) {
				return
			}
			if n.left != nil {
				queue = append(queue, n.left)
			}
			if n.right != nil {
				queue = append(queue, n.right)
			}
		}
	}
}

// PreOrder yields node, left subtree, right subtree.
func (t *Tree) PreOrder() iter.Seq[*catalog.Species] {
	return func(yield func(*catalog.Species) bool) {
		preOrder(t.root, yield)
	}
}

// InOrder yields species in ascending id order.
func (t *Tree) InOrder() iter.Seq[*catalog.Species] {
	return func(yield func(*catalog.Species) bool) {
		inOrder(t.root, yield)
	}
}

// PostOrder yields left subtree, right subtree, node.
func (t *Tree) PostOrder() iter.Seq[*catalog.Species] {
	return func(yield func(*catalog.Species) bool) {
		postOrder(t.root, yield)
	}
}

// ByName yields species in ascending name order, ties broken by id.
func (t *Tree) ByName() iter.Seq[*catalog.Species] {
	return func(yield func(*catalog.Species) bool) {
		all := slices.Collect(t.InOrder())
		slices.SortStableFunc(all, func(a, b *catalog.Species) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
		for _, s := range all {
			if !yield(s) {
				return
			}
		}
	}
}

// The recursive walkers return false once yield has asked to stop, so the
// whole walk unwinds without calling yield again.

func preOrder(n *Node, yield func(*catalog.Species) bool) bool {
	if n == nil {
		return true
	}
	return yield(n.Species) && preOrder(n.left, yield) && preOrder(n.right, yield)
}

func inOrder(n *Node, yield func(*catalog.Species) bool) bool {
	if n == nil {
		return true
	}
	return inOrder(n.left, yield) && yield(n.Species) && inOrder(n.right, yield)
}

func postOrder(n *Node, yield func(*catalog.Species) bool) bool {
	if n == nil {
		return true
	}
	return postOrder(n.left, yield) && postOrder(n.right, yield) && yield(n.Species)
}
