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
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/AleutianAI/pokedex/services/pokedex/alloc"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/index"
	"github.com/AleutianAI/pokedex/services/pokedex/ring"
)

// env is the state shared by a registry and every collection it owns.
type env struct {
	cat     *catalog.Catalog
	records *alloc.Budget
	clones  *alloc.Budget
	logger  *slog.Logger
}

// Collection is one owner's set of records.
//
// The ring is the system of record and keeps insertion order. Any
// operation keyed by id clones the ring into an index tree, uses it, and
// releases it before returning. Each id appears at most once.
type Collection struct {
	records *ring.Ring[*catalog.Species]
	env     *env
	// detached is set once the owner leaves the registry. Every keyed
	// operation then fails with ErrOwnerNotFound.
	detached bool
}

func newCollection(e *env) *Collection {
	return &Collection{records: ring.New[*catalog.Species](), env: e}
}

// Len returns the number of records. O(1).
func (c *Collection) Len() int { return c.records.Len() }

// Empty reports whether the collection has no records.
func (c *Collection) Empty() bool { return c.records.Empty() }

// Records yields species in insertion order, starting at the ring entry.
func (c *Collection) Records() iter.Seq[*catalog.Species] {
	return c.records.Values()
}

// IDs returns the record ids in insertion order.
func (c *Collection) IDs() []int {
	out := make([]int, 0, c.Len())
	for s := range c.Records() {
		out = append(out, s.ID)
	}
	return out
}

// withTree builds an index over the collection, runs fn and releases the
// tree on every exit path.
func (c *Collection) withTree(ctx context.Context, op string, fn func(*index.Tree) error) error {
	err := index.With(ctx, c.records, c.env.clones, fn)
	partial := errors.Is(err, index.ErrPartialTree)
	recordTreeBuild(ctx, op, partial)
	if partial {
		recordAllocationFailure(ctx, "clones")
	}
	return err
}

// attached rejects operations on a collection whose owner was deleted,
// merged away or torn down.
func (c *Collection) attached() error {
	if c.detached {
		return fmt.Errorf("%w: collection detached", ErrOwnerNotFound)
	}
	return nil
}

func (c *Collection) validID(id int) error {
	if err := c.attached(); err != nil {
		return err
	}
	if !c.env.cat.Valid(id) {
		return fmt.Errorf("%w: %d (valid 1..%d)", catalog.ErrInvalidID, id, c.env.cat.MaxID())
	}
	return nil
}

// element returns the ring element holding id by scanning the ring.
func (c *Collection) element(id int) (*ring.Element[*catalog.Species], bool) {
	return c.records.Find(func(s *catalog.Species) bool { return s.ID == id })
}

// link reserves and appends one record.
func (c *Collection) link(ctx context.Context, s *catalog.Species, source string) error {
	if err := c.env.records.Reserve(1); err != nil {
		recordAllocationFailure(ctx, "records")
		return fmt.Errorf("add record %d: %w", s.ID, err)
	}
	c.records.Append(s)
	recordAdded(ctx, source, 1)
	return nil
}

// unlink removes e from the ring and returns its slot to the budget.
// The ring entry is moved off e inside Unlink before e is detached.
func (c *Collection) unlink(ctx context.Context, e *ring.Element[*catalog.Species], reason string) error {
	if _, err := c.records.Unlink(e); err != nil {
		return err
	}
	c.env.records.Release(1)
	recordReleased(ctx, reason, 1)
	return nil
}

// detach releases every record and marks the collection unusable.
func (c *Collection) detach(ctx context.Context, reason string) {
	c.detached = true
	n := c.records.Len()
	c.records.Clear()
	c.env.records.Release(n)
	recordReleased(ctx, reason, n)
}

// Add appends the species with the given id.
//
// Description:
//
//	Validates the id against the catalog, checks for an existing record
//	through the index tree, reserves one record slot, and appends the
//	record at the end of insertion order.
//
// Outputs:
//   - *catalog.Species: The added species.
//   - error: catalog.ErrInvalidID, ErrDuplicateRecord, ErrOwnerNotFound once
//     the owner has left the registry, or an error wrapping
//     alloc.ErrAllocation. The collection is unchanged on any error.
func (c *Collection) Add(ctx context.Context, id int) (*catalog.Species, error) {
	if err := c.validID(id); err != nil {
		return nil, err
	}
	s, err := c.env.cat.ByID(id)
	if err != nil {
		return nil, err
	}

	err = c.withTree(ctx, "add", func(t *index.Tree) error {
		if t.Contains(id) {
			return fmt.Errorf("%w: %d", ErrDuplicateRecord, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.link(ctx, s, "add"); err != nil {
		return nil, err
	}
	c.env.logger.Debug("record added", slog.Int("id", id), slog.String("species", s.Name))
	return s, nil
}

// Contains reports whether a record with id is held.
func (c *Collection) Contains(ctx context.Context, id int) (bool, error) {
	if err := c.attached(); err != nil {
		return false, err
	}
	var found bool
	err := c.withTree(ctx, "contains", func(t *index.Tree) error {
		found = t.Contains(id)
		return nil
	})
	return found, err
}

// Lookup returns the species of the record with id.
func (c *Collection) Lookup(ctx context.Context, id int) (*catalog.Species, error) {
	if err := c.attached(); err != nil {
		return nil, err
	}
	var s *catalog.Species
	err := c.withTree(ctx, "lookup", func(t *index.Tree) error {
		n, ok := t.Find(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
		}
		s = n.Species
		return nil
	})
	return s, err
}

// Release deletes the record with id.
//
// Existence is checked on an index tree. The record itself is removed by
// unlinking it from the ring; the tree is never written back.
//
// Outputs:
//   - error: catalog.ErrInvalidID for an out-of-range id, ErrRecordNotFound
//     when no record has the id. Not-found is reported, never silent.
func (c *Collection) Release(ctx context.Context, id int) error {
	if err := c.validID(id); err != nil {
		return err
	}
	err := c.withTree(ctx, "release", func(t *index.Tree) error {
		if !t.Contains(id) {
			return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e, ok := c.element(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
	}
	if err := c.unlink(ctx, e, "release"); err != nil {
		return err
	}
	c.env.logger.Debug("record released", slog.Int("id", id))
	return nil
}

// Evolution describes the outcome of Evolve.
type Evolution struct {
	From *catalog.Species
	To   *catalog.Species
	// Released is true when To was already held, so the evolving record
	// was released instead of remapped.
	Released bool
}

// Evolve remaps the record with id to the next species.
//
// Description:
//
//	Id n becomes n+1 when the current species can evolve. The ring element
//	is kept and only its species reference is swapped, so no outside
//	reference to the element is invalidated. If n+1 is already held, the
//	evolving record is released to keep ids unique.
//
// Outputs:
//   - Evolution: From/To species and whether the record was released.
//   - error: catalog.ErrInvalidID, ErrRecordNotFound, ErrCannotEvolve or
//     ErrOwnerNotFound.
func (c *Collection) Evolve(ctx context.Context, id int) (Evolution, error) {
	if err := c.validID(id); err != nil {
		return Evolution{}, err
	}

	var ev Evolution
	err := c.withTree(ctx, "evolve", func(t *index.Tree) error {
		n, ok := t.Find(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
		}
		next, ok := c.env.cat.Evolution(n.Species)
		if !ok {
			return fmt.Errorf("%w: %s", ErrCannotEvolve, n.Species.Name)
		}
		ev = Evolution{From: n.Species, To: next, Released: t.Contains(next.ID)}
		return nil
	})
	if err != nil {
		return Evolution{}, err
	}

	e, ok := c.element(id)
	if !ok {
		return Evolution{}, fmt.Errorf("%w: %d", ErrRecordNotFound, id)
	}
	if ev.Released {
		if err := c.unlink(ctx, e, "evolve"); err != nil {
			return Evolution{}, err
		}
	} else {
		e.Value = ev.To
	}

	recordEvolution(ctx, ev.Released)
	c.env.logger.Debug("record evolved",
		slog.Int("from", ev.From.ID),
		slog.Int("to", ev.To.ID),
		slog.Bool("released", ev.Released),
	)
	return ev, nil
}

// Traverse returns the records in the requested order.
//
// OrderInsertion reads the ring directly. Every other order builds an
// index tree and materializes the walk before the tree is released.
func (c *Collection) Traverse(ctx context.Context, order Order) ([]*catalog.Species, error) {
	if err := c.attached(); err != nil {
		return nil, err
	}
	if order == OrderInsertion {
		return slices.Collect(c.Records()), nil
	}

	var out []*catalog.Species
	err := c.withTree(ctx, "traverse", func(t *index.Tree) error {
		var seq iter.Seq[*catalog.Species]
		switch order {
		case OrderLevel:
			seq = t.Level()
		case OrderPre:
			seq = t.PreOrder()
		case OrderIn:
			seq = t.InOrder()
		case OrderPost:
			seq = t.PostOrder()
		case OrderName:
			seq = t.ByName()
		default:
			return fmt.Errorf("unknown traversal order %v", order)
		}
		out = slices.Collect(seq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
