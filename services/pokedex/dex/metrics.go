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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for collection operations.
var (
	tracer = otel.Tracer("pokedex.dex")
	meter  = otel.Meter("pokedex.dex")
)

var (
	recordsAdded       metric.Int64Counter
	recordsReleased    metric.Int64Counter
	evolutions         metric.Int64Counter
	merges             metric.Int64Counter
	mergeMoved         metric.Int64Histogram
	ownersLive         metric.Int64UpDownCounter
	treeBuilds         metric.Int64Counter
	allocationFailures metric.Int64Counter
	opLatency          metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		if recordsAdded, err = meter.Int64Counter(
			"pokedex_records_added_total",
			metric.WithDescription("Records linked into a collection"),
		); err != nil {
			metricsErr = err
			return
		}

		if recordsReleased, err = meter.Int64Counter(
			"pokedex_records_released_total",
			metric.WithDescription("Records unlinked and released from a collection"),
		); err != nil {
			metricsErr = err
			return
		}

		if evolutions, err = meter.Int64Counter(
			"pokedex_evolutions_total",
			metric.WithDescription("Evolve operations that succeeded"),
		); err != nil {
			metricsErr = err
			return
		}

		if merges, err = meter.Int64Counter(
			"pokedex_merges_total",
			metric.WithDescription("Completed owner merges"),
		); err != nil {
			metricsErr = err
			return
		}

		if mergeMoved, err = meter.Int64Histogram(
			"pokedex_merge_records_moved",
			metric.WithDescription("Records copied into the destination per merge"),
		); err != nil {
			metricsErr = err
			return
		}

		if ownersLive, err = meter.Int64UpDownCounter(
			"pokedex_owners",
			metric.WithDescription("Owners currently registered"),
		); err != nil {
			metricsErr = err
			return
		}

		if treeBuilds, err = meter.Int64Counter(
			"pokedex_index_builds_total",
			metric.WithDescription("Ephemeral index trees built"),
		); err != nil {
			metricsErr = err
			return
		}

		if allocationFailures, err = meter.Int64Counter(
			"pokedex_allocation_failures_total",
			metric.WithDescription("Operations aborted because a node budget was exhausted"),
		); err != nil {
			metricsErr = err
			return
		}

		opLatency, err = meter.Float64Histogram(
			"pokedex_operation_duration_seconds",
			metric.WithDescription("Duration of registry and collection operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordAdded(ctx context.Context, source string, n int) {
	if err := initMetrics(); err != nil || n == 0 {
		return
	}
	recordsAdded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

func recordReleased(ctx context.Context, reason string, n int) {
	if err := initMetrics(); err != nil || n == 0 {
		return
	}
	recordsReleased.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

func recordEvolution(ctx context.Context, released bool) {
	if err := initMetrics(); err != nil {
		return
	}
	evolutions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("released", released)))
}

func recordMerge(ctx context.Context, moved int, self bool) {
	if err := initMetrics(); err != nil {
		return
	}
	merges.Add(ctx, 1, metric.WithAttributes(attribute.Bool("self", self)))
	mergeMoved.Record(ctx, int64(moved))
}

func recordOwners(ctx context.Context, delta int) {
	if err := initMetrics(); err != nil {
		return
	}
	ownersLive.Add(ctx, int64(delta))
}

func recordTreeBuild(ctx context.Context, op string, partial bool) {
	if err := initMetrics(); err != nil {
		return
	}
	treeBuilds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("partial", partial),
	))
}

func recordAllocationFailure(ctx context.Context, budget string) {
	if err := initMetrics(); err != nil {
		return
	}
	allocationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("budget", budget)))
}

func recordLatency(ctx context.Context, op string, start time.Time, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	opLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("success", success),
	))
}

// startOpSpan creates a span for a registry operation.
func startOpSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dex."+op, trace.WithAttributes(attrs...))
}
