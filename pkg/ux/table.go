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
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

// Numbered writes items as "1. a", "2. b", ... In ModeRich the list is
// drawn as a table with the same numbers.
func (p *Printer) Numbered(items []string) {
	if !p.rich() {
		for i, item := range items {
			fmt.Fprintf(p.w, "%d. %s\n", i+1, item)
		}
		return
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{strconv.Itoa(i + 1), item}
	}
	fmt.Fprintln(p.w, newTable("#", "Owner").Rows(rows...).String())
}

// SpeciesTable writes a catalog listing. ModePlain writes one
// FormatSpecies line per species.
func (p *Printer) SpeciesTable(list []*catalog.Species) {
	if !p.rich() {
		for _, s := range list {
			fmt.Fprintln(p.w, FormatSpecies(s))
		}
		return
	}
	rows := make([][]string, len(list))
	for i, s := range list {
		evolve := "No"
		if s.CanEvolve {
			evolve = "Yes"
		}
		rows[i] = []string{
			strconv.Itoa(s.ID), s.Name, s.Type.String(),
			strconv.Itoa(s.HP), strconv.Itoa(s.Attack), evolve,
		}
	}
	t := newTable("ID", "Name", "Type", "HP", "Attack", "Evolves").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			if col == 2 && row >= 0 && row < len(list) {
				if c, ok := typeColors[list[row].Type]; ok {
					return Styles.Cell.Foreground(c)
				}
			}
			return Styles.Cell
		})
	fmt.Fprintln(p.w, t.String())
}

// Card writes one species as a boxed summary.
func (p *Printer) Card(s *catalog.Species) {
	if !p.rich() {
		fmt.Fprintln(p.w, FormatSpecies(s))
		return
	}
	body := fmt.Sprintf("%s\n%s %s\nHP %d  Attack %d",
		Styles.Title.Render(fmt.Sprintf("#%03d %s", s.ID, s.Name)),
		Styles.Muted.Render("type"),
		lipgloss.NewStyle().Foreground(typeColors[s.Type]).Render(s.Type.String()),
		s.HP, s.Attack,
	)
	if s.CanEvolve {
		body += "\n" + Styles.Highlight.Render(string(IconArrow)+" can evolve")
	}
	fmt.Fprintln(p.w, Styles.Box.Render(body))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorNavy)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return Styles.Cell
		})
}
