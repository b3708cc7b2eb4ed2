package mealplan

import (
	"math"
	"testing"

	"nutrition-planner/internal/catalog"
)

func TestFitRegressionScorer(t *testing.T) {
	t.Run("RecoversExactLinearRelation", func(t *testing.T) {
		// Calories generated as 4*protein + 4*carb + 9*fat with no noise;
		// the fit should recover the energy densities and predict exactly.
		pool := []catalog.Record{
			{ID: "1", Protein: 10, Carbohydrates: 50, Fat: 5},
			{ID: "2", Protein: 30, Carbohydrates: 20, Fat: 15},
			{ID: "3", Protein: 5, Carbohydrates: 80, Fat: 2},
			{ID: "4", Protein: 40, Carbohydrates: 10, Fat: 20},
			{ID: "5", Protein: 22, Carbohydrates: 33, Fat: 11},
			{ID: "6", Protein: 15, Carbohydrates: 60, Fat: 8},
		}
		for i := range pool {
			pool[i].Calories = 4*pool[i].Protein + 4*pool[i].Carbohydrates + 9*pool[i].Fat
		}

		scorer, err := FitRegressionScorer(pool)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}

		probe := catalog.Record{Protein: 25, Carbohydrates: 40, Fat: 10}
		want := 4*25.0 + 4*40.0 + 9*10.0
		if got := scorer.Predict(probe); math.Abs(got-want) > 0.5 {
			t.Errorf("Expected prediction ~%f, got %f", want, got)
		}
	})

	t.Run("ScoreIsDistanceToTargetCalories", func(t *testing.T) {
		pool := []catalog.Record{
			{Protein: 10, Carbohydrates: 50, Fat: 5, Calories: 285},
			{Protein: 30, Carbohydrates: 20, Fat: 15, Calories: 335},
			{Protein: 5, Carbohydrates: 80, Fat: 2, Calories: 358},
			{Protein: 40, Carbohydrates: 10, Fat: 20, Calories: 380},
			{Protein: 22, Carbohydrates: 33, Fat: 11, Calories: 319},
		}
		scorer, err := FitRegressionScorer(pool)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}

		target := MacroTarget{ProteinG: 26.7, CarbG: 66.75, FatG: 17.8} // 534 kcal
		rec := pool[2]
		want := math.Abs(scorer.Predict(rec) - target.Calories())
		if got := scorer.Score(rec, target); math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected score %f, got %f", want, got)
		}
	})

	t.Run("TooFewRows", func(t *testing.T) {
		if _, err := FitRegressionScorer(testPool(2)); err == nil {
			t.Fatal("Expected an error for a tiny pool, got nil")
		}
	})

	t.Run("SingularPool", func(t *testing.T) {
		// Identical macro vectors make the design matrix rank deficient.
		pool := make([]catalog.Record, 6)
		for i := range pool {
			pool[i] = catalog.Record{Protein: 10, Carbohydrates: 10, Fat: 10, Calories: 170}
		}
		if _, err := FitRegressionScorer(pool); err == nil {
			t.Fatal("Expected an error for a singular design matrix, got nil")
		}
	})

	t.Run("PluggableIntoEngine", func(t *testing.T) {
		pool := testPool(12)
		for i := range pool {
			pool[i].Protein = float64(5 + i)
			pool[i].Carbohydrates = float64(60 - 2*i)
			pool[i].Fat = float64(3 + i)
			pool[i].Calories = 4*pool[i].Protein + 4*pool[i].Carbohydrates + 9*pool[i].Fat
		}
		scorer, err := FitRegressionScorer(pool)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}

		targets, err := DeriveTargets(1780, DefaultSlots())
		if err != nil {
			t.Fatalf("DeriveTargets failed: %v", err)
		}
		selections, err := NewEngine(scorer, DefaultPolicy()).Select(pool, targets)
		if err != nil {
			t.Fatalf("Select with regression scorer failed: %v", err)
		}
		if len(selections) != 3 {
			t.Fatalf("Expected 3 slots, got %d", len(selections))
		}
	})
}
