package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/planner"
)

type stubCatalog struct {
	records []catalog.Record
	err     error
}

func (s *stubCatalog) List(ctx context.Context) ([]catalog.Record, error) {
	return s.records, s.err
}

func (s *stubCatalog) Count(ctx context.Context) (int, error) {
	return len(s.records), s.err
}

func stubPool(n int) []catalog.Record {
	pool := make([]catalog.Record, n)
	for i := range pool {
		pool[i] = catalog.Record{
			ID:            fmt.Sprintf("%d", i+1),
			Name:          fmt.Sprintf("Recipe %d", i+1),
			Calories:      float64(200 + 25*i),
			Protein:       float64(8 + 2*i),
			Carbohydrates: float64(30 + 4*i),
			Fat:           float64(5 + i),
			SaturatedFat:  float64(1 + i),
		}
	}
	return pool
}

func newTestServer(cat *stubCatalog) http.Handler {
	return New(planner.New(cat, nil), cat, "data/test.db").Routes()
}

const validPlanBody = `{"age":30,"sex":"male","weight_kg":80,"height_cm":180,"goal":"maintenance"}`

func TestHandleGeneratePlan(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := newTestServer(&stubCatalog{records: stubPool(15)})

		req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(validPlanBody))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result planner.Result
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.CalorieTarget != 1780 {
			t.Errorf("Expected calorie target 1780, got %f", result.CalorieTarget)
		}
		if len(result.Plan.Slots) != 3 {
			t.Errorf("Expected 3 plan slots, got %d", len(result.Plan.Slots))
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		handler := newTestServer(&stubCatalog{records: stubPool(15)})

		req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		handler := newTestServer(&stubCatalog{records: stubPool(15)})

		body := `{"age":30,"sex":"other","weight_kg":80,"height_cm":180,"goal":"maintenance"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for invalid sex, got %d", rec.Code)
		}
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		handler := newTestServer(&stubCatalog{})

		req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(validPlanBody))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422 for an empty catalog, got %d", rec.Code)
		}
	})

	t.Run("InsufficientCatalog", func(t *testing.T) {
		handler := newTestServer(&stubCatalog{records: stubPool(3)})

		req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(validPlanBody))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422 for a too-small catalog, got %d", rec.Code)
		}
	})
}

func TestHandleListRecipes(t *testing.T) {
	handler := newTestServer(&stubCatalog{records: stubPool(4)})

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Count   int              `json:"count"`
		Recipes []catalog.Record `json:"recipes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.Count != 4 || len(payload.Recipes) != 4 {
		t.Errorf("Expected 4 recipes, got count=%d len=%d", payload.Count, len(payload.Recipes))
	}
}

func TestHandleHealth(t *testing.T) {
	handler := newTestServer(&stubCatalog{records: stubPool(2)})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Status      string `json:"status"`
		RecipeCount int    `json:"recipe_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.Status != "ok" || payload.RecipeCount != 2 {
		t.Errorf("Unexpected health payload: %+v", payload)
	}
}
