package profile

import (
	"errors"
	"fmt"
)

// Sex is the biological sex used by the Mifflin-St Jeor equation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Goal adjusts the daily calorie target relative to maintenance.
type Goal string

const (
	GoalLoss        Goal = "loss"
	GoalMaintenance Goal = "maintenance"
	GoalGain        Goal = "gain"
)

var (
	// ErrInvalidSex is returned for a sex value outside male/female.
	ErrInvalidSex = errors.New("invalid sex")
	// ErrInvalidGoal is returned for an unrecognized goal. An unknown goal is
	// never treated as maintenance; that would mask caller bugs.
	ErrInvalidGoal = errors.New("invalid goal")
)

// goalAdjustment is the calorie delta applied to BMR per goal.
const goalAdjustment = 500

// BMR computes the Basal Metabolic Rate via the Mifflin-St Jeor equation.
// Sex selects the additive constant: +5 for male, -161 for female.
func BMR(age int, sex Sex, weightKg, heightCm float64) (float64, error) {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case SexMale:
		return base + 5, nil
	case SexFemale:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSex, sex)
	}
}

// CalorieTarget adjusts a BMR for the user's goal: a 500 kcal deficit for
// loss, a 500 kcal surplus for gain, unchanged for maintenance.
func CalorieTarget(bmr float64, goal Goal) (float64, error) {
	switch goal {
	case GoalLoss:
		return bmr - goalAdjustment, nil
	case GoalGain:
		return bmr + goalAdjustment, nil
	case GoalMaintenance:
		return bmr, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGoal, goal)
	}
}

// BMI computes the body mass index: weight (kg) / height (m) squared.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMICategory is a WHO weight classification.
type BMICategory string

const (
	Underweight BMICategory = "Underweight"
	Normal      BMICategory = "Normal"
	Overweight  BMICategory = "Overweight"
	Obese       BMICategory = "Obese"
)

// ClassifyBMI maps a BMI value onto half-open intervals: [0,18.5) Underweight,
// [18.5,25) Normal, [25,30) Overweight, [30,inf) Obese. The intervals are
// contiguous, so every value lands in exactly one category.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}
