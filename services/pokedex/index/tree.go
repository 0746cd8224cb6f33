// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package index builds ephemeral binary search trees over a collection ring.
//
// A Tree is a disposable clone: every node is a fresh allocation holding the
// same *catalog.Species as the ring record it was cloned from. Mutating or
// releasing the tree never touches the ring, and changing the ring after a
// build never touches an existing tree.
//
// # Lifetime
//
// A Tree lives for one operation. Callers pair Build with Release, or use
// With, which guarantees the release on every exit path.
//
// # Thread Safety
//
// Tree is NOT safe for concurrent use.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/pokedex/services/pokedex/alloc"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/ring"
)

var tracer = otel.Tracer("pokedex.index")

// ErrPartialTree is returned by With when the build ran out of clone budget.
// It always wraps alloc.ErrAllocation as well.
var ErrPartialTree = errors.New("index tree is partial")

// Node is one cloned record in the tree.
type Node struct {
	// Species is shared with the source ring record, never copied.
	Species *catalog.Species

	left, right *Node
}

// ID returns the node's key.
func (n *Node) ID() int {
	return n.Species.ID
}

// Left returns the left child or nil.
func (n *Node) Left() *Node { return n.left }

// Right returns the right child or nil.
func (n *Node) Right() *Node { return n.right }

// Tree is an ephemeral binary search tree keyed by species id.
type Tree struct {
	root    *Node
	size    int
	budget  *alloc.Budget
	partial bool
}

// Build clones every record of r into a new binary search tree.
//
// Description:
//
//	Walks r from its entry and inserts one clone per record. The first
//	clone is the root; later clones descend left when their id is smaller
//	than the node's and right otherwise, until an empty slot is found.
//	Each clone is reserved from budget before it is created.
//
// Inputs:
//   - ctx: Context for tracing. Cancellation is not observed; a build
//     always runs to completion or to budget exhaustion.
//   - r: Source ring. Read only.
//   - budget: Clone budget. Nil means unlimited.
//
// Outputs:
//   - *Tree: Never nil. When the budget runs out the tree holds the
//     clones made so far and Partial reports true.
//   - error: Wraps alloc.ErrAllocation on budget exhaustion.
func Build(ctx context.Context, r *ring.Ring[*catalog.Species], budget *alloc.Budget) (*Tree, error) {
	_, span := tracer.Start(ctx, "index.Build",
		trace.WithAttributes(attribute.Int("ring.len", r.Len())),
	)
	defer span.End()

	start := time.Now()
	t := &Tree{budget: budget}

	for s := range r.Values() {
		if err := budget.Reserve(1); err != nil {
			t.partial = true
			span.RecordError(err)
			span.SetStatus(codes.Error, "clone budget exhausted")
			span.SetAttributes(attribute.Int("tree.size", t.size))
			slog.Warn("index build truncated",
				slog.Int("ring_len", r.Len()),
				slog.Int("cloned", t.size),
			)
			return t, fmt.Errorf("clone record %d: %w", s.ID, err)
		}
		t.insert(&Node{Species: s})
	}

	span.SetAttributes(
		attribute.Int("tree.size", t.size),
		attribute.Int("tree.height", t.Height()),
	)
	span.SetStatus(codes.Ok, "tree built")
	slog.Debug("index tree built",
		slog.Int("size", t.size),
		slog.Int("height", t.Height()),
		slog.Duration("took", time.Since(start)),
	)
	return t, nil
}

// With builds a tree from r, calls fn with it and releases it afterwards.
//
// fn is not called when the build is partial; the error then wraps both
// ErrPartialTree and alloc.ErrAllocation. The tree is released on every
// path, including a panic in fn.
func With(ctx context.Context, r *ring.Ring[*catalog.Species], budget *alloc.Budget, fn func(*Tree) error) error {
	t, err := Build(ctx, r, budget)
	defer t.Release()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPartialTree, err)
	}
	return fn(t)
}

func (t *Tree) insert(n *Node) {
	t.size++
	if t.root == nil {
		t.root = n
		return
	}
	cur := t.root
	for {
		if n.ID() < cur.ID() {
			if cur.left == nil {
				cur.left = n
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = n
				return
			}
			cur = cur.right
		}
	}
}

// Release drops every clone in post-order and returns them to the budget.
// Calling Release on an empty or already released tree does nothing.
func (t *Tree) Release() {
	if t == nil || t.root == nil {
		return
	}
	freed := releaseNode(t.root)
	t.budget.Release(freed)
	t.root = nil
	t.size = 0
}

func releaseNode(n *Node) int {
	if n == nil {
		return 0
	}
	freed := releaseNode(n.left) + releaseNode(n.right)
	n.left, n.right, n.Species = nil, nil, nil
	return freed + 1
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of reachable nodes.
func (t *Tree) Len() int { return t.size }

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool { return t.root == nil }

// Partial reports whether Build stopped early for lack of budget.
// A partial tree must not be used to decide membership.
func (t *Tree) Partial() bool { return t.partial }

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	return height(t.root)
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.left), height(n.right))
}

// Validate checks the ordering invariant left.id < node.id < right.id
// for every subtree and that the reachable node count matches Len.
func (t *Tree) Validate() error {
	count := 0
	var check func(n *Node, lo, hi int) error
	check = func(n *Node, lo, hi int) error {
		if n == nil {
			return nil
		}
		count++
		if n.ID() <= lo || n.ID() >= hi {
			return fmt.Errorf("node %d outside (%d, %d)", n.ID(), lo, hi)
		}
		if err := check(n.left, lo, n.ID()); err != nil {
			return err
		}
		return check(n.right, n.ID(), hi)
	}
	if err := check(t.root, math.MinInt, math.MaxInt); err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("reachable nodes %d, size %d", count, t.size)
	}
	return nil
}
