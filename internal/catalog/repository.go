package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed repository for catalog records.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const recipeColumns = `id, name, description, category, ingredients,
	calories, fat, saturated_fat, cholesterol, sodium, carbohydrates, fiber, sugar, protein`

// Save inserts or updates a single recipe.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid recipe: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			ingredients = excluded.ingredients,
			calories = excluded.calories,
			fat = excluded.fat,
			saturated_fat = excluded.saturated_fat,
			cholesterol = excluded.cholesterol,
			sodium = excluded.sodium,
			carbohydrates = excluded.carbohydrates,
			fiber = excluded.fiber,
			sugar = excluded.sugar,
			protein = excluded.protein,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Name, rec.Description, rec.Category, rec.Ingredients,
		rec.Calories, rec.Fat, rec.SaturatedFat, rec.Cholesterol, rec.Sodium,
		rec.Carbohydrates, rec.Fiber, rec.Sugar, rec.Protein, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// SaveAll stores a batch of records in a single transaction.
func (r *Repository) SaveAll(ctx context.Context, recs []Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			ingredients = excluded.ingredients,
			calories = excluded.calories,
			fat = excluded.fat,
			saturated_fat = excluded.saturated_fat,
			cholesterol = excluded.cholesterol,
			sodium = excluded.sodium,
			carbohydrates = excluded.carbohydrates,
			fiber = excluded.fiber,
			sugar = excluded.sugar,
			protein = excluded.protein,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("refusing to save invalid recipe: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Name, rec.Description, rec.Category, rec.Ingredients,
			rec.Calories, rec.Fat, rec.SaturatedFat, rec.Cholesterol, rec.Sodium,
			rec.Carbohydrates, rec.Fiber, rec.Sugar, rec.Protein, now); err != nil {
			return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a recipe by its ID. Returns (nil, nil) when not found.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}
	return &rec, nil
}

// List retrieves the full catalog in stable insertion order. The returned
// slice is the immutable recipe pool for one plan-generation run; callers
// must not write scores or other transient state back onto it.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return records, nil
}

// Count returns the number of recipes in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Description, &rec.Category, &rec.Ingredients,
		&rec.Calories, &rec.Fat, &rec.SaturatedFat, &rec.Cholesterol, &rec.Sodium,
		&rec.Carbohydrates, &rec.Fiber, &rec.Sugar, &rec.Protein)
	return rec, err
}
