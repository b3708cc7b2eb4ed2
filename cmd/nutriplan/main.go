package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/clipper"
	"nutrition-planner/internal/config"
	"nutrition-planner/internal/database"
	"nutrition-planner/internal/llm"
	"nutrition-planner/internal/mealplan"
	"nutrition-planner/internal/metrics"
	"nutrition-planner/internal/planner"
	"nutrition-planner/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := catalog.NewRepository(db.SQL)
	ctx := context.Background()

	switch os.Args[1] {
	case "ingest":
		runIngest(ctx, repo, os.Args[2:])
	case "plan":
		runPlan(ctx, repo, os.Args[2:])
	case "import":
		runImport(ctx, cfg, repo, db, os.Args[2:])
	case "serve":
		runServe(cfg, repo, os.Args[2:])
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metrics.NewStore(db.SQL).Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runIngest(ctx context.Context, repo *catalog.Repository, args []string) {
	ingestCmd := flag.NewFlagSet("ingest", flag.ExitOnError)
	csvPath := ingestCmd.String("csv", "", "Path to the recipe catalog CSV export")
	ingestCmd.Parse(args)

	if *csvPath == "" {
		log.Fatal("The -csv flag is required")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer f.Close()

	records, report, err := catalog.LoadCSV(f)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	if err := repo.SaveAll(ctx, records); err != nil {
		log.Fatalf("Failed to save recipes: %v", err)
	}

	fmt.Printf("Ingested %d recipes (%d dropped, %d duplicates skipped).\n",
		report.Loaded, report.Dropped, report.Dupes)
}

func runPlan(ctx context.Context, repo *catalog.Repository, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	age := planCmd.Int("age", 0, "Age in years")
	sex := planCmd.String("sex", "", "Biological sex: male or female")
	weight := planCmd.Float64("weight", 0, "Weight in kg")
	height := planCmd.Float64("height", 0, "Height in cm")
	goal := planCmd.String("goal", "maintenance", "Goal: loss, maintenance or gain")
	random := planCmd.Bool("random", false, "Sample from the top candidates instead of taking the best")
	seed := planCmd.Int64("seed", 0, "Random seed for -random runs")
	planCmd.Parse(args)

	req := planner.Request{
		Age:      *age,
		Sex:      *sex,
		WeightKg: *weight,
		HeightCm: *height,
		Goal:     *goal,
	}
	if *random {
		policy := mealplan.DefaultPolicy()
		policy.PickRandom = true
		policy.Seed = *seed
		req.Policy = &policy
	}

	result, err := planner.New(repo, nil).GeneratePlan(ctx, req)
	if err != nil {
		log.Fatalf("Plan generation failed: %v", err)
	}

	printPlan(result)
}

func printPlan(result *planner.Result) {
	fmt.Println("=== MEAL PLAN ===")
	fmt.Printf("BMR: %.0f kcal | Target: %.0f kcal (%s) | BMI: %.1f (%s)\n\n",
		result.BMR, result.CalorieTarget, result.Goal, result.BMI, result.BMICategory)

	for _, slot := range result.Plan.Slots {
		fmt.Printf("--- %s (budget %.0f kcal) ---\n", slot.Name, slot.TargetCalories)
		fmt.Printf("targets: %.1fg protein, %.1fg carbs, %.1fg fat\n",
			slot.Target.ProteinG, slot.Target.CarbG, slot.Target.FatG)
		for _, rec := range slot.Recipes {
			fmt.Printf("  %-40s %6.0f kcal  %5.1fg protein\n", rec.Name, rec.Calories, rec.Protein)
		}
		fmt.Printf("totals: %.0f kcal from macros, %.0f kcal on labels\n\n",
			slot.MacroCalories, slot.LabelCalories)
	}
}

func runImport(ctx context.Context, cfg *config.Config, repo *catalog.Repository, db *database.DB, args []string) {
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	url := importCmd.String("url", "", "Recipe page URL to import")
	importCmd.Parse(args)

	if *url == "" {
		log.Fatal("The -url flag is required")
	}
	if err := cfg.RequireLLM(); err != nil {
		log.Fatalf("Import needs an LLM backend: %v", err)
	}

	var textGen llm.TextGenerator
	if cfg.GroqAPIKey != "" {
		textGen = llm.NewGroqClient(cfg)
	} else {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	}

	result, err := clipper.NewClipper(repo, textGen).ClipURL(ctx, *url)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	store := metrics.NewStore(db.SQL)
	if err := store.Record(metrics.MapUsage("RecipeClipper", result.Usage, result.Latency)); err != nil {
		log.Printf("Warning: failed to record import metrics: %v", err)
	}

	fmt.Printf("Imported %q (%s): %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		result.Record.Name, result.Record.ID, result.Record.Calories,
		result.Record.Protein, result.Record.Carbohydrates, result.Record.Fat)
}

func runServe(cfg *config.Config, repo *catalog.Repository, args []string) {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := serveCmd.String("addr", ":8080", "Address to listen on")
	serveCmd.Parse(args)

	srv := server.New(planner.New(repo, nil), repo, cfg.DatabasePath)

	log.Printf("API server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: nutriplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest           Load a recipe catalog CSV into the database")
	fmt.Println("  plan             Generate a daily meal plan for a profile")
	fmt.Println("  import           Clip a recipe from a URL into the catalog")
	fmt.Println("  serve            Run the HTTP API server")
	fmt.Println("  metrics-cleanup  Remove old metric records")
}
