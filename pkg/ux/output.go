// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output and input for the pokedex CLI.
//
// Output goes through a Printer, which renders either styled (lipgloss)
// or plain text depending on its Mode. Input goes through a Prompter:
// LinePrompter reads lines from any io.Reader, FormPrompter drives huh
// forms on a terminal.
package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

// Palette.
var (
	ColorRed     = lipgloss.Color("#E3350D")
	ColorYellow  = lipgloss.Color("#FFCB05")
	ColorBlue    = lipgloss.Color("#2A75BB")
	ColorNavy    = lipgloss.Color("#003A70")
	ColorSuccess = lipgloss.Color("#3DAA5C")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6B7B8C")
)

// typeColors tints the type column of a record.
var typeColors = map[catalog.Type]lipgloss.Color{
	catalog.TypeGrass:    "#78C850",
	catalog.TypeFire:     "#F08030",
	catalog.TypeWater:    "#6890F0",
	catalog.TypeBug:      "#A8B820",
	catalog.TypeNormal:   "#A8A878",
	catalog.TypePoison:   "#A040A0",
	catalog.TypeElectric: "#F8D030",
	catalog.TypeGround:   "#E0C068",
	catalog.TypeFairy:    "#EE99AC",
	catalog.TypeFighting: "#C03028",
	catalog.TypePsychic:  "#F85888",
	catalog.TypeRock:     "#B8A038",
	catalog.TypeGhost:    "#705898",
	catalog.TypeDragon:   "#7038F8",
	catalog.TypeIce:      "#98D8D8",
}

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorRed),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorBlue),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorYellow).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorNavy).
		Padding(0, 1),
	Header: lipgloss.NewStyle().Bold(true).Foreground(ColorYellow).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBall    Icon = "◓"
)

// Render returns the icon with its status color.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconBall:
		return Styles.Title.Render(string(i))
	default:
		return string(i)
	}
}

// FormatSpecies renders one record the way every listing prints it.
func FormatSpecies(s *catalog.Species) string {
	evolve := "No"
	if s.CanEvolve {
		evolve = "Yes"
	}
	return fmt.Sprintf("ID: %d, Name: %s, Type: %s, HP: %d, Attack: %d, Can Evolve: %s",
		s.ID, s.Name, s.Type, s.HP, s.Attack, evolve)
}

// Printer writes user-facing output.
//
// In ModePlain every method writes exactly its text and a newline, so
// output is stable for scripts and tests. ModeRich adds color and icons
// around the same text.
type Printer struct {
	w    io.Writer
	mode Mode
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer { return p.w }

// Mode returns the rendering mode.
func (p *Printer) Mode() Mode { return p.mode }

func (p *Printer) rich() bool { return p.mode == ModeRich }

// Println writes text unchanged.
func (p *Printer) Println(text string) {
	fmt.Fprintln(p.w, text)
}

// Printf writes formatted text unchanged, without adding a newline.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Title writes a menu or section heading.
func (p *Printer) Title(text string) {
	if p.rich() {
		text = Styles.Title.Render(text)
	}
	fmt.Fprintln(p.w, text)
}

// Success reports a completed operation.
func (p *Printer) Success(text string) {
	if p.rich() {
		fmt.Fprintf(p.w, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
		return
	}
	fmt.Fprintln(p.w, text)
}

// Warning reports a rejected operation.
func (p *Printer) Warning(text string) {
	if p.rich() {
		fmt.Fprintf(p.w, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
		return
	}
	fmt.Fprintln(p.w, text)
}

// Error reports a failure.
func (p *Printer) Error(text string) {
	if p.rich() {
		fmt.Fprintf(p.w, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
		return
	}
	fmt.Fprintln(p.w, text)
}

// Menu writes a heading followed by numbered options starting at 1.
func (p *Printer) Menu(title string, options ...string) {
	p.Title(title)
	for i, opt := range options {
		num := fmt.Sprintf("%d.", i+1)
		if p.rich() {
			num = Styles.Highlight.Render(num)
		}
		fmt.Fprintf(p.w, "%s %s\n", num, opt)
	}
}

// Species writes one record line.
func (p *Printer) Species(s *catalog.Species) {
	line := FormatSpecies(s)
	if p.rich() {
		color, ok := typeColors[s.Type]
		if ok {
			line = lipgloss.NewStyle().Foreground(color).Render(string(IconBall)) + " " + line
		}
	}
	fmt.Fprintln(p.w, line)
}
