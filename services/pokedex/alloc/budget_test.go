// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_Unlimited(t *testing.T) {
	b := NewBudget("records", 0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Reserve(1))
	}
	assert.Equal(t, 1000, b.InUse())
	assert.Equal(t, 0, b.Limit())
}

func TestBudget_NilNeverRefuses(t *testing.T) {
	var b *Budget
	assert.NoError(t, b.Reserve(10))
	b.Release(3)
	assert.Equal(t, 0, b.InUse())
	assert.Equal(t, 0, b.Peak())
	assert.Equal(t, 0, b.Limit())
}

func TestBudget_LimitRefusesWithoutClaiming(t *testing.T) {
	b := NewBudget("clones", 3)
	require.NoError(t, b.Reserve(2))

	err := b.Reserve(2)
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Contains(t, err.Error(), "clones")
	assert.Equal(t, 2, b.InUse())

	require.NoError(t, b.Reserve(1))
	assert.ErrorIs(t, b.Reserve(1), ErrAllocation)
	assert.Equal(t, 3, b.Peak())
}

func TestBudget_ReleaseClampsAtZero(t *testing.T) {
	b := NewBudget("records", 5)
	require.NoError(t, b.Reserve(2))
	b.Release(5)
	assert.Equal(t, 0, b.InUse())
	assert.Equal(t, 2, b.Peak())

	b.Release(0)
	b.Release(-1)
	assert.NoError(t, b.Reserve(0))
	assert.Equal(t, 0, b.InUse())
}

func TestBudget_NegativeLimitIsUnlimited(t *testing.T) {
	b := NewBudget("records", -4)
	assert.Equal(t, 0, b.Limit())
	assert.NoError(t, b.Reserve(100))
}
