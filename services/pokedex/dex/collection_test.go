// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dex

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/pokedex/services/pokedex/alloc"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

func newTestRegistry(t *testing.T, opts Options) *Registry {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := NewRegistry(cat, opts)
	t.Cleanup(func() { r.Close(context.Background()) })
	return r
}

func newOwner(t *testing.T, r *Registry, name string, ids ...int) *Owner {
	t.Helper()
	o, err := r.Create(context.Background(), name, ids...)
	require.NoError(t, err)
	return o
}

func speciesIDs(list []*catalog.Species) []int {
	out := make([]int, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

// =============================================================================
// Add
// =============================================================================

func TestAdd_AppendsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1).Collection()

	s, err := c.Add(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", s.Name)
	_, err = c.Add(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 25, 4}, c.IDs())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 3, r.Stats().Records)
}

func TestAdd_Rejections(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1).Collection()

	_, err := c.Add(ctx, 0)
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
	_, err = c.Add(ctx, 152)
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
	_, err = c.Add(ctx, 1)
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	assert.Equal(t, []int{1}, c.IDs())
}

func TestAdd_RecordBudgetExhausted(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{MaxRecords: 2})
	c := newOwner(t, r, "Ash", 1).Collection()

	_, err := c.Add(ctx, 2)
	require.NoError(t, err)
	_, err = c.Add(ctx, 3)
	assert.ErrorIs(t, err, alloc.ErrAllocation)
	assert.Equal(t, []int{1, 2}, c.IDs(), "failed add leaves the ring unchanged")
}

func TestAdd_CloneBudgetExhausted(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{MaxCloneNodes: 2})
	c := newOwner(t, r, "Ash", 1, 2).Collection()

	_, err := c.Add(ctx, 3)
	require.NoError(t, err, "two clones fit")

	_, err = c.Add(ctx, 4)
	assert.ErrorIs(t, err, alloc.ErrAllocation)
	assert.Equal(t, []int{1, 2, 3}, c.IDs())
	assert.Equal(t, 0, r.Stats().Clones, "partial trees are released")
}

// =============================================================================
// Release
// =============================================================================

func TestRelease_UnlinksFromRing(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1, 4, 7).Collection()

	require.NoError(t, c.Release(ctx, 4))
	assert.Equal(t, []int{1, 7}, c.IDs())
	require.NoError(t, c.records.Validate())
	assert.Equal(t, 2, r.Stats().Records)
}

func TestRelease_EntryRecordMovesEntry(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1, 4, 7).Collection()

	require.NoError(t, c.Release(ctx, 1))
	assert.Equal(t, 4, c.records.Entry().Value.ID)

	require.NoError(t, c.Release(ctx, 4))
	require.NoError(t, c.Release(ctx, 7))
	assert.True(t, c.Empty())
	assert.Nil(t, c.records.Entry())
}

func TestRelease_NotFoundIsReported(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1).Collection()

	assert.ErrorIs(t, c.Release(ctx, 2), ErrRecordNotFound)
	assert.ErrorIs(t, c.Release(ctx, 999), catalog.ErrInvalidID)
	require.NoError(t, c.Release(ctx, 1))
	assert.ErrorIs(t, c.Release(ctx, 1), ErrRecordNotFound, "second release is not-found")
}

// =============================================================================
// Lookup / Contains
// =============================================================================

func TestLookupAndContains(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 7, 1).Collection()

	s, err := c.Lookup(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Squirtle", s.Name)

	_, err = c.Lookup(ctx, 4)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	ok, err := c.Contains(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Contains(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// Evolve
// =============================================================================

func TestEvolve_RemapsInPlace(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 4, 25).Collection()
	elem := c.records.Entry()

	ev, err := c.Evolve(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, ev.From.ID)
	assert.Equal(t, 5, ev.To.ID)
	assert.False(t, ev.Released)

	assert.Equal(t, []int{5, 25}, c.IDs(), "position in insertion order is kept")
	assert.Same(t, elem, c.records.Entry(), "element identity is kept")
	assert.Equal(t, "Charmeleon", elem.Value.Name)
}

func TestEvolve_TargetAlreadyHeldReleasesRecord(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 1, 2, 3).Collection()

	ev, err := c.Evolve(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ev.Released)
	assert.Equal(t, []int{2, 3}, c.IDs())
	assert.Equal(t, 2, r.Stats().Records)
}

func TestEvolve_Rejections(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 3).Collection()

	_, err := c.Evolve(ctx, 3)
	assert.ErrorIs(t, err, ErrCannotEvolve)
	_, err = c.Evolve(ctx, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = c.Evolve(ctx, -1)
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
	assert.Equal(t, []int{3}, c.IDs())
}

// =============================================================================
// Traverse
// =============================================================================

func TestTraverse_AllOrders(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	// Tree shape: 25 at the root, 7 left (4 under it), 150 right.
	c := newOwner(t, r, "Ash", 25, 7, 150, 4).Collection()

	tests := []struct {
		order Order
		want  []int
	}{
		{OrderInsertion, []int{25, 7, 150, 4}},
		{OrderLevel, []int{25, 7, 150, 4}},
		{OrderPre, []int{25, 7, 4, 150}},
		{OrderIn, []int{4, 7, 25, 150}},
		{OrderPost, []int{4, 7, 150, 25}},
		// Charmander, Mewtwo, Pikachu, Squirtle
		{OrderName, []int{4, 150, 25, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			got, err := c.Traverse(ctx, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, speciesIDs(got))
		})
	}

	_, err := c.Traverse(ctx, Order(42))
	assert.Error(t, err)
	assert.Equal(t, 0, r.Stats().Clones)
}

func TestTraverse_Empty(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash").Collection()

	for _, o := range append([]Order{OrderInsertion}, DisplayOrders...) {
		got, err := c.Traverse(ctx, o)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestOrder_String(t *testing.T) {
	want := []string{"insertion", "level", "pre", "in", "post", "name"}
	for i, o := range append([]Order{OrderInsertion}, DisplayOrders...) {
		assert.Equal(t, want[i], o.String())
	}
	assert.Equal(t, "Order(9)", Order(9).String())
}

// =============================================================================
// Fight
// =============================================================================

func TestScore(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	pikachu, err := cat.ByID(25)
	require.NoError(t, err)
	// 55*1.5 + 35*1.2
	assert.InDelta(t, 124.5, Score(pikachu), 1e-9)
}

func TestFight(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, Options{})
	c := newOwner(t, r, "Ash", 25, 150).Collection()

	res, err := c.Fight(ctx, 25, 150)
	require.NoError(t, err)
	assert.False(t, res.Tie())
	assert.Equal(t, 150, res.Winner.ID)
	assert.Greater(t, res.SecondScore, res.FirstScore)

	res, err = c.Fight(ctx, 25, 25)
	require.NoError(t, err)
	assert.True(t, res.Tie())

	_, err = c.Fight(ctx, 25, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = c.Fight(ctx, 0, 25)
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
}
