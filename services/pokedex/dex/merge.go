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
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/index"
)

// MergeResult summarizes a merge.
type MergeResult struct {
	// Added counts source records appended to the destination.
	Added int
	// Skipped counts source records whose id the destination already held.
	Skipped int
}

// Merge unions src's records into dst, then removes src.
//
// Description:
//
//	Walks a tree built from src breadth-first. Each id that dst does not
//	hold is appended to dst as a new record sharing the same species.
//	On a collision dst keeps its own record. src is then deleted from the
//	registry whether or not anything moved; a self-merge or an empty src
//	moves nothing and still deletes src.
//
//	All new records are reserved before any is linked, so a budget
//	failure leaves both owners and the registry unchanged.
//
// Outputs:
//   - MergeResult: Added and skipped counts.
//   - error: ErrOwnerNotFound if either owner is not registered, or an
//     error wrapping alloc.ErrAllocation.
func (r *Registry) Merge(ctx context.Context, dst, src *Owner) (MergeResult, error) {
	ctx, span := startOpSpan(ctx, "Registry.Merge")
	defer span.End()
	start := time.Now()

	res, err := r.merge(ctx, dst, src)
	recordLatency(ctx, "merge", start, err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "merge failed")
		return MergeResult{}, err
	}

	span.SetAttributes(
		attribute.Int("merge.added", res.Added),
		attribute.Int("merge.skipped", res.Skipped),
	)
	span.SetStatus(codes.Ok, "merge complete")
	recordMerge(ctx, res.Added, dst == src)
	r.env.logger.Info("owners merged",
		slog.String("owner", dst.name),
		slog.String("source", src.name),
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (r *Registry) merge(ctx context.Context, dst, src *Owner) (MergeResult, error) {
	if !r.owns(dst) {
		return MergeResult{}, fmt.Errorf("%w: merge destination", ErrOwnerNotFound)
	}
	if !r.owns(src) {
		return MergeResult{}, fmt.Errorf("%w: merge source", ErrOwnerNotFound)
	}

	var res MergeResult
	if dst != src && !src.coll.Empty() {
		var incoming []*catalog.Species
		err := dst.coll.withTree(ctx, "merge", func(held *index.Tree) error {
			return src.coll.withTree(ctx, "merge", func(from *index.Tree) error {
				for s := range from.Level() {
					if held.Contains(s.ID) {
						res.Skipped++
						continue
					}
					incoming = append(incoming, s)
				}
				return nil
			})
		})
		if err != nil {
			return MergeResult{}, err
		}

		if err := r.env.records.Reserve(len(incoming)); err != nil {
			recordAllocationFailure(ctx, "records")
			return MergeResult{}, fmt.Errorf("merge %q into %q: %w", src.name, dst.name, err)
		}
		for _, s := range incoming {
			dst.coll.records.Append(s)
		}
		res.Added = len(incoming)
		recordAdded(ctx, "merge", res.Added)
	}

	if err := r.remove(ctx, src, "merge"); err != nil {
		return MergeResult{}, err
	}
	return res, nil
}
