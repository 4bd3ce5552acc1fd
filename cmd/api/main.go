package main

import (
	"log"

	"github.com/joho/godotenv"

	"gotidy/internal/config"
	"gotidy/ui"
)

func main() {
	// Load .env when present; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] Failed to load configuration: %v", err)
	}

	app := ui.NewApp(cfg)
	if err := app.Run(); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}
