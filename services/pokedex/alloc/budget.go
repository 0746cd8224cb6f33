// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package alloc bounds node allocations.
//
// Go does not report allocation failure to the caller, so every component
// that creates record nodes or tree clones reserves capacity from a Budget
// first. An exhausted budget is the module's allocation-failure condition:
// the operation that asked gets ErrAllocation and must leave prior state
// unchanged.
package alloc

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned when a Budget cannot grant a reservation.
var ErrAllocation = errors.New("node allocation failed")

// Budget is a counting limit on live nodes.
//
// A nil *Budget, or one with a limit of 0, never refuses. Budget is not
// safe for concurrent use.
type Budget struct {
	name  string
	limit int
	inUse int
	peak  int
}

// NewBudget creates a budget allowing at most limit live nodes.
// limit <= 0 means unlimited.
func NewBudget(name string, limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{name: name, limit: limit}
}

// Reserve claims n nodes.
//
// Outputs:
//   - error: Wraps ErrAllocation when the claim would exceed the limit.
//     Nothing is claimed in that case.
func (b *Budget) Reserve(n int) error {
	if b == nil || n <= 0 {
		return nil
	}
	if b.limit > 0 && b.inUse+n > b.limit {
		return fmt.Errorf("%w: %s budget exhausted (%d in use, limit %d)", ErrAllocation, b.name, b.inUse, b.limit)
	}
	b.inUse += n
	if b.inUse > b.peak {
		b.peak = b.inUse
	}
	return nil
}

// Release returns n nodes to the budget. It never drops below zero.
func (b *Budget) Release(n int) {
	if b == nil || n <= 0 {
		return
	}
	b.inUse -= n
	if b.inUse < 0 {
		b.inUse = 0
	}
}

// InUse returns the number of nodes currently claimed.
func (b *Budget) InUse() int {
	if b == nil {
		return 0
	}
	return b.inUse
}

// Peak returns the highest InUse value observed.
func (b *Budget) Peak() int {
	if b == nil {
		return 0
	}
	return b.peak
}

// Limit returns the configured limit (0 = unlimited).
func (b *Budget) Limit() int {
	if b == nil {
		return 0
	}
	return b.limit
}
