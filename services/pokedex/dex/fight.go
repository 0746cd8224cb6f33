// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dex

import (
	"context"
	"fmt"

	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/index"
)

// Score weights attack 1.5 and hp 1.2.
func Score(s *catalog.Species) float64 {
	return float64(s.Attack)*1.5 + float64(s.HP)*1.2
}

// FightResult is the outcome of Fight.
type FightResult struct {
	First, Second *catalog.Species
	FirstScore    float64
	SecondScore   float64
	Winner        *catalog.Species // nil on a tie
}

// Tie reports whether both scores were equal.
func (r FightResult) Tie() bool { return r.Winner == nil }

// Fight scores two held records against each other.
//
// Both ids are looked up on one index tree. A record may fight itself,
// which is always a tie.
func (c *Collection) Fight(ctx context.Context, first, second int) (FightResult, error) {
	for _, id := range []int{first, second} {
		if err := c.validID(id); err != nil {
			return FightResult{}, err
		}
	}

	var res FightResult
	err := c.withTree(ctx, "fight", func(t *index.Tree) error {
		a, ok := t.Find(first)
		if !ok {
			return fmt.Errorf("%w: %d", ErrRecordNotFound, first)
		}
		b, ok := t.Find(second)
		if !ok {
			return fmt.Errorf("%w: %d", ErrRecordNotFound, second)
		}
		res = FightResult{
			First:       a.Species,
			Second:      b.Species,
			FirstScore:  Score(a.Species),
			SecondScore: Score(b.Species),
		}
		return nil
	})
	if err != nil {
		return FightResult{}, err
	}

	switch {
	case res.FirstScore > res.SecondScore:
		res.Winner = res.First
	case res.SecondScore > res.FirstScore:
		res.Winner = res.Second
	}
	return res, nil
}
