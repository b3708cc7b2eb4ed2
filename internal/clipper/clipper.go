package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/llm"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// RecipeSaver persists an imported recipe into the catalog.
type RecipeSaver interface {
	Save(ctx context.Context, rec catalog.Record) error
}

// Clipper fetches a recipe page, extracts structured data and estimated
// nutrition facts with an LLM, and saves the result to the catalog.
type Clipper struct {
	repo       RecipeSaver
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// ClipResult is the saved record plus the extraction's execution metadata.
type ClipResult struct {
	Record  catalog.Record
	Usage   llm.TokenUsage
	Latency time.Duration
}

// extractedRecipe is the JSON shape the extraction prompt asks for.
type extractedRecipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Nutrition   struct {
		Calories      float64 `json:"calories"`
		Fat           float64 `json:"fat_g"`
		SaturatedFat  float64 `json:"saturated_fat_g"`
		Cholesterol   float64 `json:"cholesterol_mg"`
		Sodium        float64 `json:"sodium_mg"`
		Carbohydrates float64 `json:"carbohydrate_g"`
		Fiber         float64 `json:"fiber_g"`
		Sugar         float64 `json:"sugar_g"`
		Protein       float64 `json:"protein_g"`
	} `json:"nutrition"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(repo RecipeSaver, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		repo:       repo,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the recipe using the LLM, and saves it
// to the catalog with a fresh ID.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*ClipResult, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details and nutrition
facts per serving from the following page text. Estimate any nutrition value
the page does not state. All nutrition values must be non-negative numbers.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "description": "One-sentence summary",
  "category": "e.g. Breakfast, Salad, Dessert",
  "ingredients": ["item 1", "item 2", ...],
  "nutrition": {
    "calories": 0, "fat_g": 0, "saturated_fat_g": 0, "cholesterol_mg": 0,
    "sodium_mg": 0, "carbohydrate_g": 0, "fiber_g": 0, "sugar_g": 0, "protein_g": 0
  }
}

Page Content:
%s
`, content)

	start := time.Now()
	resp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}
	latency := time.Since(start)

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Title == "" {
		return nil, fmt.Errorf("extraction returned no recipe title")
	}

	rec := catalog.Record{
		ID:            uuid.NewString(),
		Name:          extracted.Title,
		Description:   extracted.Description,
		Category:      extracted.Category,
		Ingredients:   joinIngredients(extracted.Ingredients),
		Calories:      extracted.Nutrition.Calories,
		Fat:           extracted.Nutrition.Fat,
		SaturatedFat:  extracted.Nutrition.SaturatedFat,
		Cholesterol:   extracted.Nutrition.Cholesterol,
		Sodium:        extracted.Nutrition.Sodium,
		Carbohydrates: extracted.Nutrition.Carbohydrates,
		Fiber:         extracted.Nutrition.Fiber,
		Sugar:         extracted.Nutrition.Sugar,
		Protein:       extracted.Nutrition.Protein,
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("extracted recipe failed validation: %w", err)
	}

	if err := c.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save clipped recipe: %w", err)
	}

	return &ClipResult{Record: rec, Usage: resp.Usage, Latency: latency}, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

func joinIngredients(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
