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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrInputClosed is returned when the input ends or the user aborts a
// form. Callers treat it as a request to leave the session.
var ErrInputClosed = errors.New("input closed")

// invalidInput is printed before a numeric prompt is repeated.
const invalidInput = "Invalid input."

// Prompter obtains validated input from the user.
//
// Thread Safety: Implementations are not safe for concurrent use.
type Prompter interface {
	// ReadInt shows prompt and returns an integer. Non-numeric or empty
	// answers are rejected and the prompt repeats until a valid integer
	// arrives or the input ends.
	ReadInt(ctx context.Context, prompt string) (int, error)

	// ReadLine shows prompt and returns the answer with surrounding
	// whitespace trimmed.
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// parseInt accepts an optionally signed base-10 integer. Leading
// whitespace is skipped; anything after the digits, trailing spaces
// included, makes the input invalid.
func parseInt(s string) (int, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return 0, errors.New(invalidInput)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(invalidInput)
	}
	return n, nil
}

// =============================================================================
// Line Prompter
// =============================================================================

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its line ending. A final line
// without a newline is returned normally; EOF with nothing read is
// ErrInputClosed.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadInt implements Prompter.
func (p *LinePrompter) ReadInt(ctx context.Context, prompt string) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := parseInt(line)
		if err != nil {
			fmt.Fprintln(p.out, invalidInput)
			continue
		}
		return n, nil
	}
}

// ReadLine implements Prompter.
func (p *LinePrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// =============================================================================
// Form Prompter
// =============================================================================

// FormPrompter asks each question with a single-field huh form.
// Validation happens inside the form, so an invalid integer never leaves
// it.
type FormPrompter struct {
	theme      *huh.Theme
	accessible bool
}

// NewFormPrompter creates a FormPrompter. accessible switches huh to its
// screen-reader friendly line mode.
func NewFormPrompter(accessible bool) *FormPrompter {
	return &FormPrompter{theme: huh.ThemeCharm(), accessible: accessible}
}

func (p *FormPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithAccessible(p.accessible).
		WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrInputClosed
		}
		return err
	}
	return nil
}

// ReadInt implements Prompter.
func (p *FormPrompter) ReadInt(ctx context.Context, prompt string) (int, error) {
	var raw string
	input := huh.NewInput().
		Title(strings.TrimSpace(prompt)).
		Value(&raw).
		Validate(func(s string) error {
			_, err := parseInt(s)
			return err
		})
	if err := p.run(ctx, input); err != nil {
		return 0, err
	}
	return parseInt(raw)
}

// ReadLine implements Prompter.
func (p *FormPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	var raw string
	input := huh.NewInput().Title(strings.TrimSpace(prompt)).Value(&raw)
	if err := p.run(ctx, input); err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// NewPrompter returns a FormPrompter when forms are wanted and both ends
// are terminals, and a LinePrompter otherwise.
func NewPrompter(in *os.File, out io.Writer, forms bool) Prompter {
	if forms && IsTerminal(in) && writerIsTerminal(out) {
		return NewFormPrompter(false)
	}
	return NewLinePrompter(in, out)
}

var (
	_ Prompter = (*LinePrompter)(nil)
	_ Prompter = (*FormPrompter)(nil)
)
