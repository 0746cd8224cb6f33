// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session runs the interactive Pokédex menus.
//
// A Session owns the main-menu loop and the per-owner menu loop. Every
// question goes through a ux.Prompter and every answer through a
// ux.Printer, so a session can be driven from a terminal, a pipe or a
// test script. Domain failures are reported to the user and the loop
// continues; only input failures (closed input, cancelled context) end
// a run early.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/pokedex/pkg/telemetry"
	"github.com/AleutianAI/pokedex/pkg/ux"
	"github.com/AleutianAI/pokedex/services/pokedex/alloc"
	"github.com/AleutianAI/pokedex/services/pokedex/dex"
)

var tracer = otel.Tracer("pokedex.session")

var (
	// ErrInvalidChoice indicates a menu number outside the offered range.
	ErrInvalidChoice = errors.New("invalid menu choice")

	// ErrMissingDependency is returned by New when Config lacks a
	// required collaborator.
	ErrMissingDependency = errors.New("session dependency missing")
)

// Main menu choices.
const (
	choiceNew = iota + 1
	choiceExisting
	choiceDelete
	choiceMerge
	choiceSort
	choicePrint
	choiceExit
)

var mainOptions = []string{
	"New Pokedex",
	"Existing Pokedex",
	"Delete a Pokedex",
	"Merge Pokedexes",
	"Sort Owners by Name",
	"Print Owners in a direction X times",
	"Exit",
}

// Config wires a Session.
type Config struct {
	Registry *dex.Registry
	Prompter ux.Prompter
	Printer  *ux.Printer

	// Logger receives one line per mutating operation. Nil uses
	// slog.Default().
	Logger *slog.Logger

	// ID tags every log line as session_id. Empty generates a UUID.
	ID string
}

// Session is one interactive run.
//
// Thread Safety: Not safe for concurrent use.
type Session struct {
	reg    *dex.Registry
	in     ux.Prompter
	out    *ux.Printer
	logger *slog.Logger
	id     string
}

// New validates cfg and returns a Session.
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Registry == nil:
		return nil, fmt.Errorf("%w: registry", ErrMissingDependency)
	case cfg.Prompter == nil:
		return nil, fmt.Errorf("%w: prompter", ErrMissingDependency)
	case cfg.Printer == nil:
		return nil, fmt.Errorf("%w: printer", ErrMissingDependency)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		reg:    cfg.Registry,
		in:     cfg.Prompter,
		out:    cfg.Printer,
		logger: cfg.Logger.With(slog.String("session_id", cfg.ID)),
		id:     cfg.ID,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Run shows the main menu until the user exits or input ends.
//
// Description:
//
//	Loops over the main menu. Choosing Exit prints "Goodbye!". When Run
//	returns, for any reason, the registry is closed and every owner and
//	record released.
//
// Outputs:
//   - error: nil on Exit or closed input. Context cancellation and read
//     failures are returned.
func (s *Session) Run(ctx context.Context) (err error) {
	s.logger.Info("session started")
	defer func() {
		stats := s.reg.Stats()
		s.reg.Close(context.WithoutCancel(ctx))
		s.logger.Info("session ended",
			slog.Int("owners", stats.Owners),
			slog.Int("records", stats.Records),
			slog.Int("peak_records", stats.PeakRecords),
			slog.Int("peak_clones", stats.PeakClones),
		)
	}()

	for {
		s.out.Menu("\n=== Main Menu ===", mainOptions...)
		choice, err := s.in.ReadInt(ctx, "Your choice: ")
		if err != nil {
			return inputResult(err)
		}

		switch choice {
		case choiceNew:
			err = s.action(ctx, "new_pokedex", s.newPokedex)
		case choiceExisting:
			err = s.action(ctx, "existing_pokedex", s.existingPokedex)
		case choiceDelete:
			err = s.action(ctx, "delete_pokedex", s.deletePokedex)
		case choiceMerge:
			err = s.action(ctx, "merge", s.mergePokedexes)
		case choiceSort:
			err = s.action(ctx, "sort_owners", s.sortOwners)
		case choicePrint:
			err = s.action(ctx, "print_owners", s.printOwners)
		case choiceExit:
			s.out.Println("Goodbye!")
			return nil
		default:
			s.out.Warning("Invalid.")
		}
		if err != nil {
			return inputResult(err)
		}
	}
}

// inputResult maps an input failure to Run's result. Closed input is a
// normal way to leave.
func inputResult(err error) error {
	if errors.Is(err, ux.ErrInputClosed) {
		return nil
	}
	return err
}

// action runs one menu action inside a span. Domain errors have already
// been reported by fn; only input errors reach the caller.
func (s *Session) action(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "session."+name,
		trace.WithAttributes(attribute.String("session.id", s.id)),
	)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" interrupted")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// log returns the session logger annotated with the active trace.
func (s *Session) log(ctx context.Context) *slog.Logger {
	return telemetry.LoggerWithTrace(ctx, s.logger)
}

// failed reports an unexpected domain error. Allocation failures get the
// fixed user-facing message; anything else is shown verbatim.
func (s *Session) failed(ctx context.Context, op string, err error) {
	if errors.Is(err, alloc.ErrAllocation) {
		s.out.Error("Memory allocation failed.")
		s.log(ctx).Warn("allocation failed", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	s.out.Error(fmt.Sprintf("%s failed: %v", op, err))
	s.log(ctx).Error("operation failed", slog.String("op", op), slog.String("error", err.Error()))
}
