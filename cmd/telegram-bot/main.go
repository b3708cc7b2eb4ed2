package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutrition-planner/internal/catalog"
	"nutrition-planner/internal/clipper"
	"nutrition-planner/internal/config"
	"nutrition-planner/internal/database"
	"nutrition-planner/internal/llm"
	"nutrition-planner/internal/metrics"
	"nutrition-planner/internal/planner"
	"nutrition-planner/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := cfg.RequireLLM(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var textGen llm.TextGenerator
	if cfg.GroqAPIKey != "" {
		textGen = llm.NewGroqClient(cfg)
	} else {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	}

	repo := catalog.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	mealPlanner := planner.New(repo, nil)
	recipeClipper := clipper.NewClipper(repo, textGen)

	bot, err := telegram.NewBot(cfg, mealPlanner, recipeClipper, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
