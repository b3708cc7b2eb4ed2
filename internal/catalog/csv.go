package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Column names expected in the raw catalog export. Headers are matched
// case-insensitively.
const (
	colID          = "recipeid"
	colName        = "name"
	colDescription = "description"
	colCategory    = "recipecategory"
	colIngredients = "recipeingredientparts"
)

// nutrientColumns maps CSV headers to the Record nutrient they populate,
// in the order they appear in the export.
var nutrientColumns = []string{
	"calories",
	"fatcontent",
	"saturatedfatcontent",
	"cholesterolcontent",
	"sodiumcontent",
	"carbohydratecontent",
	"fibercontent",
	"sugarcontent",
	"proteincontent",
}

// MissingColumnsError reports which required columns the raw source lacked.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns in dataset: %s", strings.Join(e.Columns, ", "))
}

// IngestReport summarizes one CSV load.
type IngestReport struct {
	Loaded  int
	Dropped int // rows failing numeric coercion or with negative nutrients
	Dupes   int // rows whose recipe ID was already seen (first occurrence wins)
}

// LoadCSV parses a recipe catalog export into validated Records. The header
// row is required; missing required columns fail the whole load with a
// MissingColumnsError naming them. Individual rows that fail numeric coercion
// are dropped, never partially admitted.
func LoadCSV(r io.Reader) ([]Record, IngestReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row against the header

	header, err := reader.Read()
	if err != nil {
		return nil, IngestReport{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	required := append([]string{colID, colName, colDescription, colCategory, colIngredients}, nutrientColumns...)
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, IngestReport{}, &MissingColumnsError{Columns: missing}
	}

	var (
		records []Record
		report  IngestReport
		seen    = make(map[string]struct{})
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("failed to read CSV row: %w", err)
		}

		rec, ok := parseRow(row, index)
		if !ok {
			report.Dropped++
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			report.Dupes++
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
		report.Loaded++
	}

	return records, report, nil
}

func parseRow(row []string, index map[string]int) (Record, bool) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := Record{
		ID:          field(colID),
		Name:        field(colName),
		Description: field(colDescription),
		Category:    field(colCategory),
		Ingredients: field(colIngredients),
	}
	if rec.ID == "" || rec.Name == "" {
		return Record{}, false
	}

	nutrients := make([]float64, len(nutrientColumns))
	for i, col := range nutrientColumns {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil || v < 0 {
			return Record{}, false
		}
		nutrients[i] = v
	}

	rec.Calories = nutrients[0]
	rec.Fat = nutrients[1]
	rec.SaturatedFat = nutrients[2]
	rec.Cholesterol = nutrients[3]
	rec.Sodium = nutrients[4]
	rec.Carbohydrates = nutrients[5]
	rec.Fiber = nutrients[6]
	rec.Sugar = nutrients[7]
	rec.Protein = nutrients[8]

	return rec, true
}
