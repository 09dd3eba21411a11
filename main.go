package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"bula/cmd"
	"bula/internal/config"
	"bula/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Commands load and validate their own configuration; here it only
	// drives the logger.
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting Bula CLI application")

	cmd.Execute()

	log.Debug().Msg("Bula CLI application shutdown")
	os.Exit(0)
}
