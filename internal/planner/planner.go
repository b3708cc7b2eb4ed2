package planner

import (
	"context"
	"fmt"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/mealplan"
	"nutrition-planner/internal/profile"

	"github.com/go-playground/validator/v10"
)

// Request carries everything needed to generate one daily meal plan.
type Request struct {
	Age      int     `json:"age" validate:"required,gt=0,lte=120"`
	Sex      string  `json:"sex" validate:"required,oneof=male female"`
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0,lte=400"`
	HeightCm float64 `json:"height_cm" validate:"required,gt=0,lte=280"`
	Goal     string  `json:"goal" validate:"required,oneof=loss maintenance gain"`

	// Optional overrides; zero values fall back to the defaults.
	Slots  []mealplan.Slot  `json:"slots,omitempty"`
	Policy *mealplan.Policy `json:"policy,omitempty"`
}

// Result is the generated plan together with the computed body metrics,
// ready for direct rendering by a presentation layer.
type Result struct {
	BMR           float64             `json:"bmr"`
	CalorieTarget float64             `json:"calorie_target"`
	BMI           float64             `json:"bmi"`
	BMICategory   profile.BMICategory `json:"bmi_category"`
	Goal          string              `json:"goal"`
	Plan          mealplan.Plan       `json:"plan"`
}

// RecipeSource supplies the validated recipe pool for a run.
type RecipeSource interface {
	List(ctx context.Context) ([]catalog.Record, error)
}

// Planner wires body metrics, macro targets and the selection engine into
// one plan-generation call.
type Planner struct {
	recipes  RecipeSource
	scorer   mealplan.Scorer
	validate *validator.Validate
}

// New creates a Planner. A nil scorer falls back to the macro-distance
// default.
func New(recipes RecipeSource, scorer mealplan.Scorer) *Planner {
	if scorer == nil {
		scorer = mealplan.MacroScorer{}
	}
	return &Planner{
		recipes:  recipes,
		scorer:   scorer,
		validate: validator.New(),
	}
}

// GeneratePlan computes the calorie budget from the user's body metrics,
// derives per-slot macro targets, and runs the selection engine over the
// catalog. All state for the run is local to this call.
func (p *Planner) GeneratePlan(ctx context.Context, req Request) (*Result, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid plan request: %w", err)
	}

	bmr, err := profile.BMR(req.Age, profile.Sex(req.Sex), req.WeightKg, req.HeightCm)
	if err != nil {
		return nil, err
	}
	calorieTarget, err := profile.CalorieTarget(bmr, profile.Goal(req.Goal))
	if err != nil {
		return nil, err
	}

	slots := req.Slots
	if len(slots) == 0 {
		slots = mealplan.DefaultSlots()
	}
	targets, err := mealplan.DeriveTargets(calorieTarget, slots)
	if err != nil {
		return nil, err
	}

	pool, err := p.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe pool: %w", err)
	}

	policy := mealplan.DefaultPolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}

	selections, err := mealplan.NewEngine(p.scorer, policy).Select(pool, targets)
	if err != nil {
		return nil, err
	}

	bmi := profile.BMI(req.WeightKg, req.HeightCm)
	return &Result{
		BMR:           bmr,
		CalorieTarget: calorieTarget,
		BMI:           bmi,
		BMICategory:   profile.ClassifyBMI(bmi),
		Goal:          req.Goal,
		Plan:          mealplan.Aggregate(selections),
	}, nil
}
