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
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AleutianAI/pokedex/services/pokedex/dex"
)

// ownerNames lists owners in ring order from the head.
func (s *Session) ownerNames() []string {
	owners := s.reg.Owners()
	names := make([]string, len(owners))
	for i, o := range owners {
		names[i] = o.Name()
	}
	return names
}

// newPokedex asks for a name and a starter and opens a Pokédex.
func (s *Session) newPokedex(ctx context.Context) error {
	name, err := s.in.ReadLine(ctx, "Your name: ")
	if err != nil {
		return err
	}
	if name == "" {
		s.out.Warning("Owner name cannot be empty.")
		return nil
	}
	if _, ok := s.reg.FindByName(name); ok {
		s.out.Warning(fmt.Sprintf("Owner '%s' already exists. Not creating a new Pokedex.", name))
		return nil
	}

	starters := s.reg.Catalog().Starters()
	labels := make([]string, len(starters))
	for i, sp := range starters {
		labels[i] = sp.Name
	}
	s.out.Menu("Choose Starter:", labels...)
	choice, err := s.in.ReadInt(ctx, "Your choice: ")
	if err != nil {
		return err
	}
	starter, err := s.reg.Catalog().Starter(choice)
	if err != nil {
		s.out.Warning("Invalid choice.")
		return nil
	}

	o, err := s.reg.Create(ctx, name, starter.ID)
	if err != nil {
		s.failed(ctx, "create", err)
		return nil
	}
	s.out.Success(fmt.Sprintf("New Pokedex created for %s with starter %s.", o.Name(), starter.Name))
	s.log(ctx).Info("pokedex created", slog.String("owner", o.Name()), slog.Int("id", starter.ID))
	return nil
}

// existingPokedex asks for an owner by number until a valid one is
// chosen, then enters that owner's menu.
func (s *Session) existingPokedex(ctx context.Context) error {
	if s.reg.Empty() {
		s.out.Println("No existing Pokedexes.")
		return nil
	}

	var owner *dex.Owner
	for owner == nil {
		s.out.Println("\nExisting Pokedexes:")
		s.out.Numbered(s.ownerNames())
		n, err := s.in.ReadInt(ctx, "Choose a Pokedex by number: ")
		if err != nil {
			return err
		}
		owner, _ = s.reg.ByOrdinal(n)
	}

	s.out.Println(fmt.Sprintf("\nEntering %s's Pokedex...", owner.Name()))
	return s.ownerMenu(ctx, owner)
}

// deletePokedex removes an owner chosen by number.
func (s *Session) deletePokedex(ctx context.Context) error {
	if s.reg.Empty() {
		s.out.Println("No existing Pokedexes to delete.")
		return nil
	}

	s.out.Title("\n=== Delete a Pokedex ===")
	s.out.Numbered(s.ownerNames())
	n, err := s.in.ReadInt(ctx, "Choose a Pokedex to delete by number: ")
	if err != nil {
		return err
	}
	owner, ok := s.reg.ByOrdinal(n)
	if !ok {
		s.out.Warning("Invalid choice.")
		return nil
	}

	name := owner.Name()
	s.out.Println(fmt.Sprintf("Deleting %s's entire Pokedex...", name))
	if err := s.reg.Delete(ctx, owner); err != nil {
		s.failed(ctx, "delete", err)
		return nil
	}
	s.out.Success("Pokedex deleted.")
	s.log(ctx).Info("pokedex deleted", slog.String("owner", name))
	return nil
}

// mergePokedexes moves the second owner's records into the first and
// removes the second owner.
func (s *Session) mergePokedexes(ctx context.Context) error {
	if s.reg.Len() < 2 {
		s.out.Println("Not enough owners to merge.")
		return nil
	}

	first, err := s.in.ReadLine(ctx, "Enter name of first owner: ")
	if err != nil {
		return err
	}
	second, err := s.in.ReadLine(ctx, "Enter name of second owner: ")
	if err != nil {
		return err
	}
	dst, okDst := s.reg.FindByName(first)
	src, okSrc := s.reg.FindByName(second)
	if !okDst || !okSrc {
		s.out.Warning("One or both owners not found.")
		return nil
	}

	res, err := s.reg.Merge(ctx, dst, src)
	if err != nil {
		s.failed(ctx, "merge", err)
		return nil
	}
	s.out.Println(fmt.Sprintf("Merging %s and %s...", first, second))
	s.out.Success("Merge completed.")
	s.out.Println(fmt.Sprintf("Owner '%s' has been removed after merging.", second))
	s.log(ctx).Info("pokedexes merged",
		slog.String("owner", first),
		slog.String("source", second),
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
	)
	return nil
}

// sortOwners orders owners by name.
func (s *Session) sortOwners(ctx context.Context) error {
	if s.reg.Empty() {
		s.out.Println("0 or 1 owners only => no need to sort.")
		return nil
	}
	s.reg.SortByName(ctx)
	s.out.Success("Owners sorted by name.")
	s.log(ctx).Info("owners sorted", slog.Int("owners", s.reg.Len()))
	return nil
}

// printOwners walks the owner ring from the head in a chosen direction.
func (s *Session) printOwners(ctx context.Context) error {
	if s.reg.Empty() {
		s.out.Println("No owners.")
		return nil
	}

	forward, err := s.readDirection(ctx, "Enter direction (F or B): ")
	if err != nil {
		return err
	}
	count, err := s.in.ReadInt(ctx, "How many prints? ")
	if err != nil {
		return err
	}

	i := 0
	for o := range s.reg.Enumerate(forward, count) {
		i++
		s.out.Printf("[%d] %s\n", i, o.Name())
	}
	return nil
}

// readDirection accepts any answer starting with f or b, in either case,
// and repeats the prompt otherwise.
func (s *Session) readDirection(ctx context.Context, prompt string) (forward bool, _ error) {
	for {
		answer, err := s.in.ReadLine(ctx, prompt)
		if err != nil {
			return false, err
		}
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(answer))
		switch unicode.ToLower(r) {
		case 'f':
			return true, nil
		case 'b':
			return false, nil
		}
		s.out.Warning("Invalid direction, must be F or B.")
	}
}
