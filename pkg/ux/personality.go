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
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Mode selects how a Printer renders.
type Mode int

const (
	// ModePlain writes bare text, one line per message.
	ModePlain Mode = iota
	// ModeRich adds color, icons and tables.
	ModeRich
)

func (m Mode) String() string {
	if m == ModeRich {
		return "rich"
	}
	return "plain"
}

// ColorSetting is the user's color preference.
type ColorSetting string

const (
	ColorAuto   ColorSetting = "auto"
	ColorAlways ColorSetting = "always"
	ColorNever  ColorSetting = "never"
)

// ParseColorSetting accepts auto, always or never, case-insensitively.
// An empty string is auto.
func ParseColorSetting(s string) (ColorSetting, error) {
	switch c := ColorSetting(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return c, nil
	}
	return ColorAuto, fmt.Errorf("unknown color setting %q", s)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writerIsTerminal reports whether w is an *os.File on a terminal.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// DetectMode picks the rendering mode for w.
//
// ColorAlways and ColorNever are honored as given. ColorAuto is rich only
// when w is a terminal and NO_COLOR is unset.
func DetectMode(w io.Writer, setting ColorSetting) Mode {
	switch setting {
	case ColorAlways:
		return ModeRich
	case ColorNever:
		return ModePlain
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ModePlain
	}
	if writerIsTerminal(w) {
		return ModeRich
	}
	return ModePlain
}
