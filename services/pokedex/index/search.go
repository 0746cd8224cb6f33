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

// Find returns the node with the given id using a breadth-first walk.
//
// Description:
//
//	Visits nodes level by level from the root with a FIFO queue and
//	returns the first match. Ids are unique, so the result does not depend
//	on visiting order.
//
// Outputs:
//   - *Node: The matching node. Nil when absent.
//   - bool: True if found.
func (t *Tree) Find(id int) (*Node, bool) {
	if t.root == nil {
		return nil, false
	}
	queue := []*Node{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.ID() == id {
			return n, true
		}
		if n.left != nil {
			queue = append(queue, n.left)
		}
		if n.right != nil {
			queue = append(queue, n.right)
		}
	}
	return nil, false
}

// Contains reports whether id is present.
func (t *Tree) Contains(id int) bool {
	_, ok := t.Find(id)
	return ok
}

// Delete removes the node with the given id.
//
// Description:
//
//	Standard BST deletion. A leaf is dropped. A node with one child is
//	replaced by that child. A node with two children takes the species of
//	its in-order successor (left-most node of the right subtree) and the
//	successor is then deleted from the right subtree. The removed clone is
//	returned to the budget.
//
// Outputs:
//   - bool: True if a node was removed. Deleting a missing id leaves the
//     tree unchanged and returns false.
func (t *Tree) Delete(id int) bool {
	var removed bool
	t.root, removed = deleteNode(t.root, id)
	if removed {
		t.size--
		t.budget.Release(1)
	}
	return removed
}

func deleteNode(n *Node, id int) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	switch {
	case id < n.ID():
		n.left, removed = deleteNode(n.left, id)
		return n, removed
	case id > n.ID():
		n.right, removed = deleteNode(n.right, id)
		return n, removed
	}

	switch {
	case n.left == nil:
		child := n.right
		n.right, n.Species = nil, nil
		return child, true
	case n.right == nil:
		child := n.left
		n.left, n.Species = nil, nil
		return child, true
	}

	succ := n.right
	for succ.left != nil {
		succ = succ.left
	}
	n.Species = succ.Species
	n.right, _ = deleteNode(n.right, succ.ID())
	return n, true
}
