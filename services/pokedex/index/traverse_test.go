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
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

func TestTraversalOrders(t *testing.T) {
	tree, err := Build(context.Background(), ringOf(t, balanced...), nil)
	require.NoError(t, err)
	defer tree.Release()

	tests := []struct {
		name string
		seq  iter.Seq[*catalog.Species]
		want []int
	}{
		{"level", tree.Level(), []int{50, 30, 70, 20, 40, 60, 80}},
		{"pre", tree.PreOrder(), []int{50, 30, 20, 40, 70, 60, 80}},
		{"in", tree.InOrder(), []int{20, 30, 40, 50, 60, 70, 80}},
		{"post", tree.PostOrder(), []int{20, 40, 30, 60, 80, 70, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.seq))
			assert.Equal(t, tt.want, ids(tt.seq), "sequence is restartable")
		})
	}
}

func TestByName(t *testing.T) {
	tree, err := Build(context.Background(), ringOf(t, 25, 7, 1, 4), nil)
	require.NoError(t, err)
	defer tree.Release()

	var names []string
	for s := range tree.ByName() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Bulbasaur", "Charmander", "Pikachu", "Squirtle"}, names)
}

func TestTraversal_EarlyBreak(t *testing.T) {
	tree, err := Build(context.Background(), ringOf(t, balanced...), nil)
	require.NoError(t, err)
	defer tree.Release()

	for _, seq := range []iter.Seq[*catalog.Species]{
		tree.Level(), tree.PreOrder(), tree.InOrder(), tree.PostOrder(), tree.ByName(),
	} {
		n := 0
		for range seq {
			n++
			if n == 3 {
				break
			}
		}
		assert.Equal(t, 3, n)
	}
}

func TestTraversal_EmptyTree(t *testing.T) {
	tree := &Tree{}
	assert.Empty(t, ids(tree.Level()))
	assert.Empty(t, ids(tree.PreOrder()))
	assert.Empty(t, ids(tree.InOrder()))
	assert.Empty(t, ids(tree.PostOrder()))
	assert.Empty(t, ids(tree.ByName()))
}
