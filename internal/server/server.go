package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/mealplan"
	"nutrition-planner/internal/metrics"
	"nutrition-planner/internal/planner"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

// RecipeLister exposes the catalog read operations the API needs.
type RecipeLister interface {
	List(ctx context.Context) ([]catalog.Record, error)
	Count(ctx context.Context) (int, error)
}

// Server is the HTTP API surface over the planner and the catalog.
type Server struct {
	planner  *planner.Planner
	recipes  RecipeLister
	dataPath string
}

// New creates a Server. dataPath is reported by the health endpoint.
func New(p *planner.Planner, recipes RecipeLister, dataPath string) *Server {
	return &Server{planner: p, recipes: recipes, dataPath: dataPath}
}

// Routes builds the router with all middleware and endpoints attached.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.handleHealth)
	router.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handleGeneratePlan)
		r.Get("/recipes", s.handleListRecipes)
	})

	return router
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.planner.GeneratePlan(r.Context(), req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	records, err := s.recipes.List(r.Context())
	if err != nil {
		log.Printf("Failed to list recipes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	if records == nil {
		records = []catalog.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"recipes": records,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.recipes.Count(r.Context())
	if err != nil {
		log.Printf("Health check failed to reach the database: %v", err)
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"recipe_count": count,
		"system":       metrics.GetSysHealth(filepath.Dir(s.dataPath)),
	})
}

// writePlanError maps domain errors to HTTP statuses. Bad input is 400,
// a catalog that cannot satisfy the request is 422, anything else is 500.
func writePlanError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	var insufficient *mealplan.InsufficientCatalogError

	switch {
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mealplan.ErrEmptyCatalog), errors.As(err, &insufficient):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("Plan generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "plan generation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
