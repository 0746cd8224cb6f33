// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"fmt"
	"strings"
)

// Type is the elemental category of a species.
type Type int

const (
	TypeGrass Type = iota
	TypeFire
	TypeWater
	TypeBug
	TypeNormal
	TypePoison
	TypeElectric
	TypeGround
	TypeFairy
	TypeFighting
	TypePsychic
	TypeRock
	TypeGhost
	TypeDragon
	TypeIce
)

var typeNames = [...]string{
	TypeGrass:    "GRASS",
	TypeFire:     "FIRE",
	TypeWater:    "WATER",
	TypeBug:      "BUG",
	TypeNormal:   "NORMAL",
	TypePoison:   "POISON",
	TypeElectric: "ELECTRIC",
	TypeGround:   "GROUND",
	TypeFairy:    "FAIRY",
	TypeFighting: "FIGHTING",
	TypePsychic:  "PSYCHIC",
	TypeRock:     "ROCK",
	TypeGhost:    "GHOST",
	TypeDragon:   "DRAGON",
	TypeIce:      "ICE",
}

// String returns the upper-case type name, or "UNKNOWN".
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// ParseType converts a type name (case-insensitive) to a Type.
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
