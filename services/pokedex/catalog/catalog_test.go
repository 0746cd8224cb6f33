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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default catalog
// =============================================================================

func TestDefault_Loads151Species(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 151, c.Len())
	assert.Equal(t, 151, c.MaxID())
	assert.Len(t, c.Digest(), 64)
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestByID(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		id   int
		name string
		typ  Type
	}{
		{1, "Bulbasaur", TypeGrass},
		{4, "Charmander", TypeFire},
		{7, "Squirtle", TypeWater},
		{25, "Pikachu", TypeElectric},
		{151, "Mew", TypePsychic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.ByID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.id, s.ID)
			assert.Equal(t, tt.name, s.Name)
			assert.Equal(t, tt.typ, s.Type)
		})
	}
}

func TestByID_ReturnsStablePointer(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	a, err := c.ByID(10)
	require.NoError(t, err)
	b, err := c.ByID(10)
	require.NoError(t, err)
	assert.Same(t, a, b, "records must reference the catalog entry, not a copy")
}

func TestByID_OutOfRange(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, id := range []int{-1, 0, 152, 1000} {
		_, err := c.ByID(id)
		assert.ErrorIs(t, err, ErrInvalidID, "id=%d", id)
		assert.False(t, c.Valid(id))
	}
}

func TestAll_InOrder(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	want := 1
	for s := range c.All() {
		assert.Equal(t, want, s.ID)
		want++
	}
	assert.Equal(t, 152, want)
}

// =============================================================================
// Starters and evolution
// =============================================================================

func TestStarters(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	starters := c.Starters()
	require.Len(t, starters, 3)
	assert.Equal(t, "Bulbasaur", starters[0].Name)
	assert.Equal(t, "Charmander", starters[1].Name)
	assert.Equal(t, "Squirtle", starters[2].Name)

	s, err := c.Starter(2)
	require.NoError(t, err)
	assert.Equal(t, 4, s.ID)

	_, err = c.Starter(0)
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = c.Starter(4)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestEvolution(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	bulbasaur, _ := c.ByID(1)
	next, ok := c.Evolution(bulbasaur)
	require.True(t, ok)
	assert.Equal(t, "Ivysaur", next.Name)

	venusaur, _ := c.ByID(3)
	_, ok = c.Evolution(venusaur)
	assert.False(t, ok)

	mew, _ := c.ByID(151)
	_, ok = c.Evolution(mew)
	assert.False(t, ok)

	_, ok = c.Evolution(nil)
	assert.False(t, ok)
}

// =============================================================================
// Parse validation
// =============================================================================

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"empty array", `[]`},
		{"unknown type", `[{"id":1,"name":"A","type":"STEEL","hp":1,"attack":1,"can_evolve":false}]`},
		{"missing name", `[{"id":1,"type":"FIRE","hp":1,"attack":1,"can_evolve":false}]`},
		{"zero hp", `[{"id":1,"name":"A","type":"FIRE","hp":0,"attack":1,"can_evolve":false}]`},
		{"extra field", `[{"id":1,"name":"A","type":"FIRE","hp":1,"attack":1,"can_evolve":false,"x":1}]`},
		{"gap in ids", `[{"id":2,"name":"A","type":"FIRE","hp":1,"attack":1,"can_evolve":false}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Nil(t, c)
		})
	}
}

func TestParse_SmallCatalog(t *testing.T) {
	raw := `[
	  {"id":1,"name":"Alpha","type":"ICE","hp":10,"attack":5,"can_evolve":true},
	  {"id":2,"name":"Beta","type":"ghost","hp":20,"attack":0,"can_evolve":false}
	]`
	c, err := Parse([]byte(raw))
	require.Error(t, err, "schema enum is case-sensitive")
	assert.Nil(t, c)

	raw = `[
	  {"id":1,"name":"Alpha","type":"ICE","hp":10,"attack":5,"can_evolve":true},
	  {"id":2,"name":"Beta","type":"GHOST","hp":20,"attack":0,"can_evolve":false}
	]`
	c, err = Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	alpha, _ := c.ByID(1)
	beta, ok := c.Evolution(alpha)
	require.True(t, ok)
	assert.Equal(t, TypeGhost, beta.Type)
}

// =============================================================================
// Type
// =============================================================================

func TestType_String(t *testing.T) {
	assert.Equal(t, "GRASS", TypeGrass.String())
	assert.Equal(t, "ICE", TypeIce.String())
	assert.Equal(t, "UNKNOWN", Type(99).String())
	assert.Equal(t, "UNKNOWN", Type(-1).String())
}

func TestType_JSON(t *testing.T) {
	b, err := json.Marshal(TypeDragon)
	require.NoError(t, err)
	assert.Equal(t, `"DRAGON"`, string(b))

	var typ Type
	require.NoError(t, json.Unmarshal([]byte(`"psychic"`), &typ))
	assert.Equal(t, TypePsychic, typ)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"STEEL"`), &typ), ErrUnknownType)

	_, err = json.Marshal(Type(42))
	assert.Error(t, err)
}
