package catalog

import "fmt"

// Record is one validated catalog entry. Every Record handed to the meal-plan
// engine has all nine nutrient fields present and non-negative; rows failing
// coercion are dropped during ingestion.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Ingredients string `json:"ingredients"`

	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Cholesterol   float64 `json:"cholesterol"`
	Sodium        float64 `json:"sodium"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Protein       float64 `json:"protein"`
}

// Validate checks the invariants every engine-bound record must satisfy.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe has no ID")
	}
	if r.Name == "" {
		return fmt.Errorf("recipe %s has no name", r.ID)
	}
	for _, n := range []struct {
		field string
		value float64
	}{
		{"calories", r.Calories},
		{"fat", r.Fat},
		{"saturated_fat", r.SaturatedFat},
		{"cholesterol", r.Cholesterol},
		{"sodium", r.Sodium},
		{"carbohydrates", r.Carbohydrates},
		{"fiber", r.Fiber},
		{"sugar", r.Sugar},
		{"protein", r.Protein},
	} {
		if n.value < 0 {
			return fmt.Errorf("recipe %s: %s is negative", r.ID, n.field)
		}
	}
	return nil
}
