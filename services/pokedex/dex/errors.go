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

import "errors"

// Sentinel errors for collection and registry operations.
//
// Validation errors reject a single operation and leave state unchanged.
// Not-found errors are ordinary outcomes. Allocation failures wrap
// alloc.ErrAllocation; id range failures wrap catalog.ErrInvalidID.
var (
	// ErrRecordNotFound indicates the collection holds no record with the id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateRecord indicates the collection already holds the id.
	ErrDuplicateRecord = errors.New("record already in collection")

	// ErrCannotEvolve indicates the record's species has no evolution.
	ErrCannotEvolve = errors.New("species cannot evolve")

	// ErrOwnerNotFound indicates no owner matches the name, ordinal or handle.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrDuplicateOwner indicates an owner with the same name already exists.
	ErrDuplicateOwner = errors.New("owner already exists")

	// ErrEmptyName indicates a blank owner name.
	ErrEmptyName = errors.New("owner name is empty")

	// ErrClosed indicates the registry has been torn down.
	ErrClosed = errors.New("registry is closed")
)
