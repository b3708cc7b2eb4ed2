package mealplan

import "nutrition-planner/internal/catalog"

// SlotPlan is one finished meal slot with its realized totals.
type SlotPlan struct {
	Name           string           `json:"name"`
	TargetCalories float64          `json:"target_calories"`
	Target         MacroTarget      `json:"target"`
	Recipes        []catalog.Record `json:"recipes"`

	// MacroCalories reconstructs the slot's energy from the selected recipes'
	// macro grams at 4/4/9 kcal per gram, with the fat term taken from
	// saturated fat to stay consistent with the scorer.
	MacroCalories float64 `json:"macro_calories"`
	// LabelCalories sums the recipes' stated calorie fields. Surfacing both
	// totals lets callers cross-check the macro-derived energy against the
	// labels.
	LabelCalories float64 `json:"label_calories"`
}

// Plan is the finished meal plan, slots in the order they were resolved.
type Plan struct {
	Slots []SlotPlan `json:"slots"`
}

// Aggregate assembles the final plan from the engine's slot selections.
func Aggregate(selections []SlotSelection) Plan {
	slots := make([]SlotPlan, 0, len(selections))
	for _, sel := range selections {
		sp := SlotPlan{
			Name:           sel.Target.Slot.Name,
			TargetCalories: sel.Target.Calories,
			Target:         sel.Target.Macros,
			Recipes:        sel.Recipes,
		}
		for _, rec := range sel.Recipes {
			sp.MacroCalories += rec.Protein*kcalPerGramProtein +
				rec.Carbohydrates*kcalPerGramCarb +
				rec.SaturatedFat*kcalPerGramFat
			sp.LabelCalories += rec.Calories
		}
		slots = append(slots, sp)
	}
	return Plan{Slots: slots}
}
