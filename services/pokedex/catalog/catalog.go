// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog provides the immutable species table.
//
// The catalog is loaded once from an embedded JSON document, validated
// against a JSON schema and struct tags, and then only read. Collections
// store *Species pointers into the catalog; they never copy or mutate the
// records.
//
// # Indexing
//
// Species ids are contiguous small positive integers 1..Len(). Callers must
// reject out-of-range ids before lookup; ByID returns ErrInvalidID for them.
//
// # Thread Safety
//
// A loaded Catalog is read-only and safe for concurrent use.
package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed species.json
var defaultSpecies []byte

//go:embed species.schema.json
var speciesSchema string

// Sentinel errors for catalog operations.
var (
	// ErrInvalidID is returned when an id is outside 1..Len().
	ErrInvalidID = errors.New("species id out of range")

	// ErrUnknownType is returned for a type name that is not in the enumeration.
	ErrUnknownType = errors.New("unknown species type")

	// ErrInvalidCatalog is returned when catalog data fails validation.
	ErrInvalidCatalog = errors.New("invalid species catalog")
)

// starterIDs are the species offered when a new Pokédex is opened,
// in menu order.
var starterIDs = [...]int{1, 4, 7}

// Species is one immutable catalog entry.
type Species struct {
	ID        int    `json:"id" validate:"min=1"`
	Name      string `json:"name" validate:"required"`
	Type      Type   `json:"type"`
	HP        int    `json:"hp" validate:"min=1"`
	Attack    int    `json:"attack" validate:"min=0"`
	CanEvolve bool   `json:"can_evolve"`
}

// Catalog is the read-only species table.
type Catalog struct {
	species []Species
	digest  string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, loading it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultSpecies)
	})
	return defaultCatalog, defaultErr
}

// Parse builds a Catalog from a JSON array of species.
//
// Description:
//
//	Validates raw against the embedded species schema, decodes it, checks
//	struct tags, and requires ids to be exactly 1..N in order so that
//	lookup is a direct index.
//
// Inputs:
//   - raw: JSON document (array of species objects).
//
// Outputs:
//   - *Catalog: The loaded catalog. Nil on error.
//   - error: Wraps ErrInvalidCatalog when any check fails.
func Parse(raw []byte) (*Catalog, error) {
	schema, err := jsonschema.CompileString("species.schema.json", speciesSchema)
	if err != nil {
		return nil, fmt.Errorf("compile species schema: %w", err)
	}

	var doc any
	numDec := json.NewDecoder(bytes.NewReader(raw))
	numDec.UseNumber()
	if err := numDec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var defs []Species
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	for i := range defs {
		if err := validate.Struct(defs[i]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidCatalog, i, err)
		}
		if defs[i].ID != i+1 {
			return nil, fmt.Errorf("%w: entry %d has id %d, want %d", ErrInvalidCatalog, i, defs[i].ID, i+1)
		}
	}

	sum := sha256.Sum256(raw)
	return &Catalog{
		species: defs,
		digest:  hex.EncodeToString(sum[:]),
	}, nil
}

// Len returns the number of species; valid ids are 1..Len().
func (c *Catalog) Len() int {
	return len(c.species)
}

// MaxID returns the highest valid species id.
func (c *Catalog) MaxID() int {
	return len(c.species)
}

// Digest is the hex SHA-256 of the source document.
func (c *Catalog) Digest() string {
	return c.digest
}

// Valid reports whether id is inside the catalog range.
func (c *Catalog) Valid(id int) bool {
	return id >= 1 && id <= len(c.species)
}

// ByID returns the species with the given id.
func (c *Catalog) ByID(id int) (*Species, error) {
	if !c.Valid(id) {
		return nil, fmt.Errorf("%w: %d (valid 1..%d)", ErrInvalidID, id, len(c.species))
	}
	return &c.species[id-1], nil
}

// All yields every species in id order.
func (c *Catalog) All() iter.Seq[*Species] {
	return func(yield func(*Species) bool) {
		for i := range c.species {
			if !yield(&c.species[i]) {
				return
			}
		}
	}
}

// Starters returns the starter species in menu order.
func (c *Catalog) Starters() []*Species {
	out := make([]*Species, 0, len(starterIDs))
	for _, id := range starterIDs {
		if s, err := c.ByID(id); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Starter returns the starter for a 1-based menu choice.
func (c *Catalog) Starter(choice int) (*Species, error) {
	if choice < 1 || choice > len(starterIDs) {
		return nil, fmt.Errorf("%w: starter choice %d", ErrInvalidID, choice)
	}
	return c.ByID(starterIDs[choice-1])
}

// Evolution returns the species s evolves into.
//
// Evolution maps id n to n+1. The second return is false when s cannot
// evolve or n+1 is outside the catalog.
func (c *Catalog) Evolution(s *Species) (*Species, bool) {
	if s == nil || !s.CanEvolve {
		return nil, false
	}
	next, err := c.ByID(s.ID + 1)
	if err != nil {
		return nil, false
	}
	return next, true
}
