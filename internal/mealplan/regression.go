package mealplan

import (
	"fmt"
	"math"

	"nutrition-planner/internal/catalog"
)

// RegressionScorer is an alternative scoring strategy: a least-squares model
// fit on a training pool predicts a recipe's calorie content from its macro
// vector, and recipes are ranked by how close that prediction lands to the
// slot's reconstructed calorie target. It plugs into the engine behind the
// same Scorer interface and keeps no per-run state.
type RegressionScorer struct {
	// coef holds [intercept, protein, carbohydrate, fat].
	coef [4]float64
}

const regressionFeatures = 4

// FitRegressionScorer fits calories ~ protein + carbohydrate + fat by
// ordinary least squares over the given pool. The pool is read, never
// written. Fails if there are too few rows or the design matrix is singular.
func FitRegressionScorer(pool []catalog.Record) (*RegressionScorer, error) {
	if len(pool) < regressionFeatures {
		return nil, fmt.Errorf("need at least %d recipes to fit the regression, got %d",
			regressionFeatures, len(pool))
	}

	// Normal equations: (XᵀX) b = Xᵀy, accumulated in one pass.
	var xtx [regressionFeatures][regressionFeatures]float64
	var xty [regressionFeatures]float64

	for _, rec := range pool {
		x := [regressionFeatures]float64{1, rec.Protein, rec.Carbohydrates, rec.Fat}
		for i := 0; i < regressionFeatures; i++ {
			for j := 0; j < regressionFeatures; j++ {
				xtx[i][j] += x[i] * x[j]
			}
			xty[i] += x[i] * rec.Calories
		}
	}

	coef, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, fmt.Errorf("failed to fit calorie regression: %w", err)
	}
	return &RegressionScorer{coef: coef}, nil
}

// Predict returns the model's calorie estimate for a recipe.
func (s *RegressionScorer) Predict(rec catalog.Record) float64 {
	return s.coef[0] + s.coef[1]*rec.Protein + s.coef[2]*rec.Carbohydrates + s.coef[3]*rec.Fat
}

// Score ranks by distance between predicted calories and the target's
// reconstructed calorie content. Lower is better, like every Scorer.
func (s *RegressionScorer) Score(rec catalog.Record, target MacroTarget) float64 {
	return math.Abs(s.Predict(rec) - target.Calories())
}

// solveLinearSystem solves Ax = b by Gaussian elimination with partial
// pivoting. Small fixed size, so no numeric library is warranted.
func solveLinearSystem(a [regressionFeatures][regressionFeatures]float64, b [regressionFeatures]float64) ([regressionFeatures]float64, error) {
	const n = regressionFeatures
	var x [n]float64

	for col := 0; col < n; col++ {
		// Pivot on the largest remaining entry in this column.
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return x, fmt.Errorf("singular design matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for j := col; j < n; j++ {
				a[row][j] -= factor * a[col][j]
			}
			b[row] -= factor * b[col]
		}
	}

	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for j := row + 1; j < n; j++ {
			sum -= a[row][j] * x[j]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}
