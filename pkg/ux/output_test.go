// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

func species(t *testing.T, id int) *catalog.Species {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	s, err := cat.ByID(id)
	require.NoError(t, err)
	return s
}

// =============================================================================
// FormatSpecies Tests
// =============================================================================

func TestFormatSpecies(t *testing.T) {
	assert.Equal(t,
		"ID: 1, Name: Bulbasaur, Type: GRASS, HP: 45, Attack: 49, Can Evolve: Yes",
		FormatSpecies(species(t, 1)))
	assert.Equal(t,
		"ID: 151, Name: Mew, Type: PSYCHIC, HP: 100, Attack: 100, Can Evolve: No",
		FormatSpecies(species(t, 151)))
}

// =============================================================================
// Plain Printer Tests
// =============================================================================

func TestPrinter_PlainWritesExactText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModePlain)

	p.Title("\n=== Main Menu ===")
	p.Success("Pokedex deleted.")
	p.Warning("Invalid choice.")
	p.Error("Cannot evolve.")
	p.Printf("[%d] %s\n", 1, "Ash")
	p.Println("Goodbye!")

	assert.Equal(t,
		"\n=== Main Menu ===\nPokedex deleted.\nInvalid choice.\nCannot evolve.\n[1] Ash\nGoodbye!\n",
		buf.String())
	assert.Same(t, &buf, p.Writer())
	assert.Equal(t, ModePlain, p.Mode())
}

func TestPrinter_PlainMenu(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ModePlain).Menu("Choose Starter:", "Bulbasaur", "Charmander", "Squirtle")
	assert.Equal(t, "Choose Starter:\n1. Bulbasaur\n2. Charmander\n3. Squirtle\n", buf.String())
}

func TestPrinter_PlainListings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModePlain)

	p.Numbered([]string{"Ash", "Misty"})
	p.Species(species(t, 25))
	p.SpeciesTable([]*catalog.Species{species(t, 4)})
	p.Card(species(t, 7))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1. Ash", lines[0])
	assert.Equal(t, "2. Misty", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "ID: 25, Name: Pikachu"))
	assert.True(t, strings.HasPrefix(lines[3], "ID: 4, Name: Charmander"))
	assert.True(t, strings.HasPrefix(lines[4], "ID: 7, Name: Squirtle"))
}

// =============================================================================
// Rich Printer Tests
// =============================================================================

func TestPrinter_RichKeepsText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModeRich)

	p.Success("Pokedex deleted.")
	p.Menu("Display:", "BFS (Level-Order)")
	p.Species(species(t, 25))

	out := buf.String()
	assert.Contains(t, out, "Pokedex deleted.")
	assert.Contains(t, out, "BFS (Level-Order)")
	assert.Contains(t, out, "Name: Pikachu")
}

func TestPrinter_RichTables(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModeRich)

	p.SpeciesTable([]*catalog.Species{species(t, 1), species(t, 4)})
	p.Numbered([]string{"Brock"})
	p.Card(species(t, 1))

	out := buf.String()
	for _, want := range []string{"Name", "Bulbasaur", "Charmander", "FIRE", "Brock", "can evolve"} {
		assert.Contains(t, out, want)
	}
}

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconArrow, IconBall} {
		assert.Contains(t, icon.Render(), string(icon))
	}
}
