// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

type catalogListOptions struct {
	typeName  string
	evolvable bool
}

func runCatalogList(cmd *cobra.Command, opts *rootOptions, list catalogListOptions) error {
	name := cmd.CommandPath()
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	cat, err := catalog.Default()
	if err != nil {
		return NewCommandError(name, exitFailed, err)
	}

	match := func(*catalog.Species) bool { return true }
	if list.typeName != "" {
		t, err := catalog.ParseType(list.typeName)
		if err != nil {
			return NewCommandError(name, exitUsage, err)
		}
		match = func(s *catalog.Species) bool { return s.Type == t }
	}

	var species []*catalog.Species
	for s := range cat.All() {
		if match(s) && (!list.evolvable || s.CanEvolve) {
			species = append(species, s)
		}
	}
	printerFor(cmd, cfg).SpeciesTable(species)
	return nil
}

func runCatalogShow(cmd *cobra.Command, opts *rootOptions, arg string) error {
	name := cmd.CommandPath()
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return NewCommandError(name, exitUsage, fmt.Errorf("id %q is not a number", arg))
	}
	cat, err := catalog.Default()
	if err != nil {
		return NewCommandError(name, exitFailed, err)
	}
	s, err := cat.ByID(id)
	if err != nil {
		return NewCommandError(name, exitUsage, err)
	}

	p := printerFor(cmd, cfg)
	p.Card(s)
	if next, ok := cat.Evolution(s); ok {
		p.Printf("Evolves into: %s (ID %d)\n", next.Name, next.ID)
	}
	return nil
}
