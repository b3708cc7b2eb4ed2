package telegram

import (
	"fmt"
	"strings"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/planner"
)

// formatPlanMarkdown renders a generated plan as a single Telegram
// Markdown message.
func formatPlanMarkdown(result *planner.Result) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Your Daily Meal Plan*\n\n")

	sb.WriteString(fmt.Sprintf("🔥 *BMR:* %.0f kcal\n", result.BMR))
	sb.WriteString(fmt.Sprintf("🎯 *Calorie Target:* %.0f kcal (%s)\n", result.CalorieTarget, result.Goal))
	sb.WriteString(fmt.Sprintf("⚖️ *BMI:* %.1f (%s)\n\n", result.BMI, result.BMICategory))

	for _, slot := range result.Plan.Slots {
		sb.WriteString(fmt.Sprintf("*%s* — %.0f kcal budget\n", titleCase(slot.Name), slot.TargetCalories))
		sb.WriteString(fmt.Sprintf("_targets: %.0fg protein / %.0fg carbs / %.0fg fat_\n",
			slot.Target.ProteinG, slot.Target.CarbG, slot.Target.FatG))
		for _, rec := range slot.Recipes {
			sb.WriteString(fmt.Sprintf("• %s (%.0f kcal, %.0fg protein)\n", rec.Name, rec.Calories, rec.Protein))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatClipResult renders a confirmation for a freshly clipped recipe.
func formatClipResult(rec catalog.Record) string {
	var sb strings.Builder
	sb.WriteString("✅ *Recipe Saved!*\n\n")
	sb.WriteString(fmt.Sprintf("*Title:* %s\n", rec.Name))
	if rec.Category != "" {
		sb.WriteString(fmt.Sprintf("*Category:* %s\n", rec.Category))
	}
	sb.WriteString(fmt.Sprintf("*Per serving:* %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
		rec.Calories, rec.Protein, rec.Carbohydrates, rec.Fat))
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
