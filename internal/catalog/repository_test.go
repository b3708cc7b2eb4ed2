package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nutrition-planner/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "catalog_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := database.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.SQL)
}

func testRecord(id, name string) Record {
	return Record{
		ID: id, Name: name, Category: "Dinner", Ingredients: "things",
		Calories: 400, Fat: 10, SaturatedFat: 3, Cholesterol: 20, Sodium: 200,
		Carbohydrates: 45, Fiber: 6, Sugar: 8, Protein: 25,
	}
}

func TestRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		rec, err := repo.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Expected no error for missing recipe, got %v", err)
		}
		if rec != nil {
			t.Errorf("Expected nil for missing recipe, got %+v", rec)
		}
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		if err := repo.Save(ctx, testRecord("1", "Stew")); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}

		rec, err := repo.Get(ctx, "1")
		if err != nil {
			t.Fatalf("Failed to get recipe: %v", err)
		}
		if rec == nil || rec.Name != "Stew" {
			t.Fatalf("Unexpected record: %+v", rec)
		}
		if rec.Protein != 25 {
			t.Errorf("Expected protein 25, got %f", rec.Protein)
		}
	})

	t.Run("SaveUpserts", func(t *testing.T) {
		updated := testRecord("1", "Beef Stew")
		updated.Calories = 500
		if err := repo.Save(ctx, updated); err != nil {
			t.Fatalf("Failed to upsert recipe: %v", err)
		}

		rec, _ := repo.Get(ctx, "1")
		if rec.Name != "Beef Stew" || rec.Calories != 500 {
			t.Errorf("Expected upserted values, got %+v", rec)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 recipe after upsert, got %d", count)
		}
	})

	t.Run("SaveAllAndList", func(t *testing.T) {
		batch := []Record{
			testRecord("2", "Salad"),
			testRecord("3", "Soup"),
		}
		if err := repo.SaveAll(ctx, batch); err != nil {
			t.Fatalf("Failed to save batch: %v", err)
		}

		records, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("Failed to list recipes: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("Expected 3 recipes, got %d", len(records))
		}
		// Insertion order is the catalog order the engine relies on.
		if records[0].ID != "1" || records[1].ID != "2" || records[2].ID != "3" {
			t.Errorf("Expected stable insertion order, got %s %s %s",
				records[0].ID, records[1].ID, records[2].ID)
		}
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		bad := testRecord("4", "Broken")
		bad.Protein = -1
		if err := repo.Save(ctx, bad); err == nil {
			t.Fatal("Expected an error saving a negative nutrient, got nil")
		}
	})
}
