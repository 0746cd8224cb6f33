// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dex holds owners and their record collections.
//
// A Registry is a ring of Owners, each owning one Collection. A Collection
// is a ring of records referencing catalog species. Id-keyed work on a
// collection goes through an ephemeral index tree that is released before
// the operation returns.
//
// # Lifecycle
//
// NewRegistry returns an empty registry. Close releases every owner and
// record; the registry refuses further mutation afterwards.
//
// # Thread Safety
//
// Registry and Collection are NOT safe for concurrent use. One operation
// runs to completion before the next begins.
package dex

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/pokedex/services/pokedex/alloc"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/ring"
)

// Options configures a Registry.
type Options struct {
	// MaxRecords caps live records across all owners. 0 = unlimited.
	MaxRecords int

	// MaxCloneNodes caps live index-tree clones. 0 = unlimited.
	MaxCloneNodes int

	// Logger receives operation logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// Owner holds exactly one collection.
type Owner struct {
	name string
	coll *Collection
	elem *ring.Element[*Owner]
	reg  *Registry
}

// Name returns the owner's name.
func (o *Owner) Name() string { return o.name }

// Collection returns the owner's records.
func (o *Owner) Collection() *Collection { return o.coll }

// Registry is the ring of owners plus the state shared by their
// collections.
type Registry struct {
	owners *ring.Ring[*Owner]
	env    *env
	closed bool
}

// NewRegistry creates an empty registry over cat.
func NewRegistry(cat *catalog.Catalog, opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		owners: ring.New[*Owner](),
		env: &env{
			cat:     cat,
			records: alloc.NewBudget("records", opts.MaxRecords),
			clones:  alloc.NewBudget("clones", opts.MaxCloneNodes),
			logger:  logger,
		},
	}
}

// Catalog returns the species catalog records are drawn from.
func (r *Registry) Catalog() *catalog.Catalog { return r.env.cat }

// Len returns the number of owners.
func (r *Registry) Len() int { return r.owners.Len() }

// Empty reports whether there are no owners.
func (r *Registry) Empty() bool { return r.owners.Empty() }

// Head returns the current head owner, or nil when empty.
func (r *Registry) Head() *Owner {
	if e := r.owners.Entry(); e != nil {
		return e.Value
	}
	return nil
}

// Stats reports live record and clone counts.
type Stats struct {
	Owners      int
	Records     int
	PeakRecords int
	Clones      int
	PeakClones  int
}

// Stats returns a snapshot of resource usage.
func (r *Registry) Stats() Stats {
	return Stats{
		Owners:      r.owners.Len(),
		Records:     r.env.records.InUse(),
		PeakRecords: r.env.records.Peak(),
		Clones:      r.env.clones.InUse(),
		PeakClones:  r.env.clones.Peak(),
	}
}

// Create registers a new owner seeded with the given species ids.
//
// Description:
//
//	The name is trimmed and must be non-empty and not already registered
//	(exact, case-sensitive match). Seed ids must be valid and distinct.
//	Seed records are reserved as a batch, so a failure leaves the registry
//	unchanged. The new owner is appended at the end of the owner ring.
//
// Outputs:
//   - *Owner: The new owner.
//   - error: ErrEmptyName, ErrDuplicateOwner, catalog.ErrInvalidID,
//     ErrDuplicateRecord, ErrClosed, or an error wrapping
//     alloc.ErrAllocation.
func (r *Registry) Create(ctx context.Context, name string, seed ...int) (*Owner, error) {
	ctx, span := startOpSpan(ctx, "Registry.Create", attribute.Int("seed.count", len(seed)))
	defer span.End()
	start := time.Now()

	o, err := r.create(ctx, name, seed)
	recordLatency(ctx, "create", start, err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "owner created")
	r.env.logger.Info("owner created",
		slog.String("owner", o.name),
		slog.Any("seed", seed),
		slog.Int("owners", r.Len()),
	)
	return o, nil
}

func (r *Registry) create(ctx context.Context, name string, seed []int) (*Owner, error) {
	if r.closed {
		return nil, ErrClosed
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := r.FindByName(name); ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateOwner, name)
	}

	species := make([]*catalog.Species, 0, len(seed))
	seen := make(map[int]bool, len(seed))
	for _, id := range seed {
		s, err := r.env.cat.ByID(id)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRecord, id)
		}
		seen[id] = true
		species = append(species, s)
	}

	if err := r.env.records.Reserve(len(species)); err != nil {
		recordAllocationFailure(ctx, "records")
		return nil, fmt.Errorf("seed owner %q: %w", name, err)
	}

	o := &Owner{name: name, coll: newCollection(r.env), reg: r}
	for _, s := range species {
		o.coll.records.Append(s)
	}
	o.elem = r.owners.Append(o)

	recordAdded(ctx, "seed", len(species))
	recordOwners(ctx, 1)
	return o, nil
}

// FindByName returns the owner with exactly the given name. The scan
// stops after one revolution.
func (r *Registry) FindByName(name string) (*Owner, bool) {
	e, ok := r.owners.Find(func(o *Owner) bool { return o.name == name })
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Owners returns every owner in ring order from the head. Position i
// holds ordinal i+1.
func (r *Registry) Owners() []*Owner {
	out := make([]*Owner, 0, r.owners.Len())
	for o := range r.owners.Values() {
		out = append(out, o)
	}
	return out
}

// ByOrdinal returns the nth owner (1-based) in ring order from the head.
// Out-of-range ordinals report not found.
func (r *Registry) ByOrdinal(n int) (*Owner, bool) {
	if n < 1 || n > r.owners.Len() {
		return nil, false
	}
	i := 1
	for o := range r.owners.Values() {
		if i == n {
			return o, true
		}
		i++
	}
	return nil, false
}

// Enumerate yields count owners from the head, stepping forward or
// backward. Owners repeat when count exceeds Len. A non-positive count
// yields nothing.
func (r *Registry) Enumerate(forward bool, count int) iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		for e := range r.owners.Walk(forward, count) {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Delete removes o from the registry and releases its collection.
//
// The registry head is moved off o by the unlink itself, before the
// owner's records are released.
func (r *Registry) Delete(ctx context.Context, o *Owner) error {
	ctx, span := startOpSpan(ctx, "Registry.Delete")
	defer span.End()

	if err := r.remove(ctx, o, "delete"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	span.SetStatus(codes.Ok, "owner deleted")
	r.env.logger.Info("owner deleted", slog.String("owner", o.name), slog.Int("owners", r.Len()))
	return nil
}

func (r *Registry) owns(o *Owner) bool {
	return o != nil && o.reg == r && o.elem != nil && o.elem.Linked()
}

func (r *Registry) remove(ctx context.Context, o *Owner, reason string) error {
	if !r.owns(o) {
		return ErrOwnerNotFound
	}
	if _, err := r.owners.Unlink(o.elem); err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerNotFound, err)
	}
	o.elem = nil
	o.coll.detach(ctx, reason)
	recordOwners(ctx, -1)
	return nil
}

// SortByName orders owners by ascending name and makes the smallest name
// the head.
//
// Description:
//
//	Bubble sort over the ring: adjacent pairs are compared from the head
//	and their owners swapped between elements, until a full pass makes no
//	swap. The head is then reset to the owner with the smallest name.
func (r *Registry) SortByName(ctx context.Context) {
	_, span := startOpSpan(ctx, "Registry.SortByName", attribute.Int("owners", r.Len()))
	defer span.End()

	n := r.owners.Len()
	passes := 0
	for swapped := true; swapped && n > 1; {
		swapped = false
		passes++
		e := r.owners.Entry()
		for i := 0; i < n-1; i++ {
			next := e.Next()
			if e.Value.name > next.Value.name {
				ring.SwapValues(e, next)
				e.Value.elem, next.Value.elem = e, next
				swapped = true
			}
			e = next
		}
	}

	if head := r.smallest(); head != nil {
		_ = r.owners.SetEntry(head.elem)
	}
	span.SetAttributes(attribute.Int("passes", passes))
	r.env.logger.Info("owners sorted", slog.Int("owners", n), slog.Int("passes", passes))
}

func (r *Registry) smallest() *Owner {
	var least *Owner
	for o := range r.owners.Values() {
		if least == nil || o.name < least.name {
			least = o
		}
	}
	return least
}

// Close deletes every owner. It is safe to call more than once.
func (r *Registry) Close(ctx context.Context) {
	if r.closed {
		return
	}
	owners := r.Len()
	for !r.owners.Empty() {
		_ = r.remove(ctx, r.owners.Entry().Value, "teardown")
	}
	r.closed = true
	r.env.logger.Info("registry closed",
		slog.Int("owners_released", owners),
		slog.Int("records_in_use", r.env.records.InUse()),
	)
}
