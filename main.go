package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/upcv/backend/repository"
	"github.com/upcv/backend/services"
)

func main() {
	// Setup structured logging with JSON format
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	config := services.LoadConfig()
	if config.JWT.Secret == "" {
		slog.Error("JWT secret is not configured")
		os.Exit(1)
	}

	// Initialize database connection
	db, err := services.OpenDatabase(config.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	repo := repository.NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	if config.Database.Seed {
		if err := services.NewDatabaseSeeder(repo).SeedDatabase(context.Background()); err != nil {
			slog.Error("Failed to seed database", "error", err)
		}
	}

	services.NewServer(config, repo).Start()
}
