// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/dex"
)

// Owner menu choices.
const (
	choiceAdd = iota + 1
	choiceDisplay
	choiceRelease
	choiceFight
	choiceEvolve
	choiceBack
)

var ownerOptions = []string{
	"Add Pokemon",
	"Display Pokedex",
	"Release Pokemon (by ID)",
	"Pokemon Fight!",
	"Evolve Pokemon",
	"Back to Main",
}

var displayOptions = []string{
	"BFS (Level-Order)",
	"Pre-Order",
	"In-Order",
	"Post-Order",
	"Alphabetical (by name)",
}

// displayOrder maps a display-menu number to a traversal order.
func displayOrder(choice int) (dex.Order, error) {
	if choice < 1 || choice > len(dex.DisplayOrders) {
		return 0, fmt.Errorf("%w: display %d", ErrInvalidChoice, choice)
	}
	return dex.DisplayOrders[choice-1], nil
}

// ownerMenu loops over one owner's menu until Back is chosen.
func (s *Session) ownerMenu(ctx context.Context, o *dex.Owner) error {
	coll := o.Collection()
	log := s.log(ctx).With(slog.String("owner", o.Name()))

	for {
		s.out.Menu(fmt.Sprintf("\n-- %s's Pokedex Menu --", o.Name()), ownerOptions...)
		choice, err := s.in.ReadInt(ctx, "Your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case choiceAdd:
			err = s.addRecord(ctx, log, coll)
		case choiceDisplay:
			err = s.display(ctx, log, coll)
		case choiceRelease:
			err = s.release(ctx, log, coll)
		case choiceFight:
			err = s.fight(ctx, coll)
		case choiceEvolve:
			err = s.evolve(ctx, log, coll)
		case choiceBack:
			s.out.Println("Back to Main Menu.")
			return nil
		default:
			s.out.Warning("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) addRecord(ctx context.Context, log *slog.Logger, coll *dex.Collection) error {
	id, err := s.in.ReadInt(ctx, "Enter ID to add: ")
	if err != nil {
		return err
	}

	sp, err := coll.Add(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		s.out.Warning("Invalid ID.")
	case errors.Is(err, dex.ErrDuplicateRecord):
		s.out.Warning(fmt.Sprintf("Pokemon with ID %d is already in the Pokedex. No changes made.", id))
	case err != nil:
		s.failed(ctx, "add", err)
	default:
		s.out.Success(fmt.Sprintf("Pokemon %s (ID %d) added.", sp.Name, sp.ID))
		log.Info("record added", slog.Int("id", sp.ID), slog.String("species", sp.Name))
	}
	return nil
}

func (s *Session) display(ctx context.Context, log *slog.Logger, coll *dex.Collection) error {
	if coll.Empty() {
		s.out.Println("Pokedex is empty.")
		return nil
	}

	s.out.Menu("Display:", displayOptions...)
	choice, err := s.in.ReadInt(ctx, "Your choice: ")
	if err != nil {
		return err
	}
	order, err := displayOrder(choice)
	if err != nil {
		s.out.Warning("Invalid choice.")
		return nil
	}

	records, err := coll.Traverse(ctx, order)
	if err != nil {
		s.failed(ctx, "display", err)
		return nil
	}
	for _, sp := range records {
		s.out.Species(sp)
	}
	log.Debug("records displayed", slog.String("order", order.String()), slog.Int("count", len(records)))
	return nil
}

func (s *Session) release(ctx context.Context, log *slog.Logger, coll *dex.Collection) error {
	if coll.Empty() {
		s.out.Println("No Pokemon to release.")
		return nil
	}
	id, err := s.in.ReadInt(ctx, "Enter Pokemon ID to release: ")
	if err != nil {
		return err
	}

	sp, err := coll.Lookup(ctx, id)
	if err == nil {
		err = coll.Release(ctx, id)
	}
	switch {
	case errors.Is(err, catalog.ErrInvalidID), errors.Is(err, dex.ErrRecordNotFound):
		s.out.Warning(fmt.Sprintf("No Pokemon with ID %d found.", id))
	case err != nil:
		s.failed(ctx, "release", err)
	default:
		s.out.Success(fmt.Sprintf("Removing Pokemon %s (ID %d).", sp.Name, id))
		log.Info("record released", slog.Int("id", id), slog.String("species", sp.Name))
	}
	return nil
}

func (s *Session) fight(ctx context.Context, coll *dex.Collection) error {
	if coll.Empty() {
		s.out.Println("Pokedex is empty.")
		return nil
	}
	first, err := s.in.ReadInt(ctx, "Enter ID of the first Pokemon: ")
	if err != nil {
		return err
	}
	second, err := s.in.ReadInt(ctx, "Enter ID of the second Pokemon: ")
	if err != nil {
		return err
	}

	res, err := coll.Fight(ctx, first, second)
	switch {
	case errors.Is(err, catalog.ErrInvalidID), errors.Is(err, dex.ErrRecordNotFound):
		s.out.Warning("One or both Pokemon IDs not found.")
		return nil
	case err != nil:
		s.failed(ctx, "fight", err)
		return nil
	}

	s.out.Printf("Pokemon 1: %s (Score = %.2f)\n", res.First.Name, res.FirstScore)
	s.out.Printf("Pokemon 2: %s (Score = %.2f)\n", res.Second.Name, res.SecondScore)
	if res.Tie() {
		s.out.Println("It's a tie!")
	} else {
		s.out.Success(fmt.Sprintf("%s wins!", res.Winner.Name))
	}
	return nil
}

func (s *Session) evolve(ctx context.Context, log *slog.Logger, coll *dex.Collection) error {
	if coll.Empty() {
		s.out.Println("Cannot evolve. Pokedex empty.")
		return nil
	}
	id, err := s.in.ReadInt(ctx, "Enter ID of Pokemon to evolve: ")
	if err != nil {
		return err
	}

	ev, err := coll.Evolve(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrInvalidID), errors.Is(err, dex.ErrRecordNotFound):
		s.out.Warning(fmt.Sprintf("No Pokemon with ID %d found.", id))
		return nil
	case errors.Is(err, dex.ErrCannotEvolve):
		s.out.Warning("Cannot evolve.")
		return nil
	case err != nil:
		s.failed(ctx, "evolve", err)
		return nil
	}

	s.out.Success(fmt.Sprintf("Pokemon evolved from %s (ID %d) to %s (ID %d).",
		ev.From.Name, ev.From.ID, ev.To.Name, ev.To.ID))
	if ev.Released {
		s.out.Println(fmt.Sprintf("%s (ID %d) was already in the Pokedex, so %s was released.",
			ev.To.Name, ev.To.ID, ev.From.Name))
	}
	log.Info("record evolved",
		slog.Int("id", ev.From.ID),
		slog.Int("to", ev.To.ID),
		slog.Bool("released", ev.Released),
	)
	return nil
}
