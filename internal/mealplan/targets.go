package mealplan

import (
	"fmt"
	"math"
)

// Slot is a named meal occasion with its share of the daily calorie budget.
type Slot struct {
	Name  string  `json:"name"`
	Share float64 `json:"share"`
}

// DefaultSlots is the standard three-meal split.
func DefaultSlots() []Slot {
	return []Slot{
		{Name: "breakfast", Share: 0.30},
		{Name: "lunch", Share: 0.40},
		{Name: "dinner", Share: 0.30},
	}
}

// MacroTarget is the per-slot macronutrient goal in grams.
type MacroTarget struct {
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

// SlotTarget pairs a slot with its calorie budget and derived macro goal.
type SlotTarget struct {
	Slot     Slot
	Calories float64
	Macros   MacroTarget
}

// Fixed macro policy: 20% of slot calories from protein, 50% from
// carbohydrate, 30% from fat, at the standard energy densities.
const (
	proteinCalShare = 0.20
	carbCalShare    = 0.50
	fatCalShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

const shareEpsilon = 1e-6

// DeriveTargets splits a total calorie budget across the given slots and
// converts each slot's calories into target grams per macro. Slot shares
// must sum to 1.
func DeriveTargets(totalCalories float64, slots []Slot) ([]SlotTarget, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("no meal slots configured")
	}

	var sum float64
	for _, s := range slots {
		if s.Share <= 0 {
			return nil, fmt.Errorf("slot %q has non-positive share %f", s.Name, s.Share)
		}
		sum += s.Share
	}
	if math.Abs(sum-1) > shareEpsilon {
		return nil, fmt.Errorf("slot shares sum to %f, expected 1.0", sum)
	}

	targets := make([]SlotTarget, 0, len(slots))
	for _, s := range slots {
		calories := totalCalories * s.Share
		targets = append(targets, SlotTarget{
			Slot:     s,
			Calories: calories,
			Macros: MacroTarget{
				ProteinG: calories * proteinCalShare / kcalPerGramProtein,
				CarbG:    calories * carbCalShare / kcalPerGramCarb,
				FatG:     calories * fatCalShare / kcalPerGramFat,
			},
		})
	}
	return targets, nil
}

// Calories reconstructs the energy content implied by the macro grams.
func (m MacroTarget) Calories() float64 {
	return m.ProteinG*kcalPerGramProtein + m.CarbG*kcalPerGramCarb + m.FatG*kcalPerGramFat
}
