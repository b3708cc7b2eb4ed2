package mealplan

import (
	"math"

	"nutrition-planner/internal/catalog"
)

// Scorer rates how well a recipe fits a slot's macro target. Lower is
// better. Implementations must not mutate the record; per-run scores are
// kept in engine-local state, never written back onto the shared pool.
type Scorer interface {
	Score(rec catalog.Record, target MacroTarget) float64
}

// MacroScorer is the default fitness score: the sum of absolute deviations
// between the recipe's macros and the target grams. The fat term compares
// the target against the recipe's saturated fat rather than total fat,
// reproducing the reference behavior this engine is held to.
type MacroScorer struct{}

func (MacroScorer) Score(rec catalog.Record, target MacroTarget) float64 {
	return math.Abs(rec.Protein-target.ProteinG) +
		math.Abs(rec.Carbohydrates-target.CarbG) +
		math.Abs(rec.SaturatedFat-target.FatG)
}
