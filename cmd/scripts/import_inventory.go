package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	mongorepo "github.com/spinforge/arcade-backend/internal/repositories/mongodb"
	"github.com/spinforge/arcade-backend/internal/services"
	"github.com/spinforge/arcade-backend/internal/utils"
	"github.com/spinforge/arcade-backend/pkg/mongodb"
)

// Imports collectible voucher references from a CSV export into the
// platform inventory. Usage: import_inventory <file.csv>
func main() {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		slog.Error("MONGODB_URI environment variable is required")
		os.Exit(1)
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "arcade"
	}
	if len(os.Args) < 2 {
		slog.Error("CSV file path is required as a command line argument")
		os.Exit(1)
	}

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	inventoryService := services.NewInventoryService(mongorepo.NewInventoryRepository(client.Database(dbName)))
	importer := utils.NewInventoryCSVImporter(inventoryService)

	results, err := importer.Import(context.Background(), os.Args[1])
	if err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Import completed",
		"totalRows", results["totalRows"],
		"added", results["added"],
		"skipped", results["skipped"],
		"errors", results["errors"],
	)
}
