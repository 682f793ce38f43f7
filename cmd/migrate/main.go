package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/config"
	"church-portal-api/internal/database"
	"church-portal-api/internal/migration"
	"church-portal-api/pkg/server"
)

func main() {
	var (
		dbPath  = flag.String("db", config.GetEnv("DB_PATH", "./data/portal.db"), "Database file path")
		action  = flag.String("action", "up", "Migration action: up, down, status, import")
		jsonDir = flag.String("json", "./data/seed", "Directory holding users.json and admins.json for import")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	logger.WithFields(logrus.Fields{
		"db_path": absDBPath,
		"action":  *action,
	}).Info("Starting migration tool")

	migrations := database.NewMigrationManager(absDBPath, logger)

	switch *action {
	case "up":
		if err := migrations.RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Migration up failed")
		}
	case "down":
		if err := migrations.RollbackMigration(); err != nil {
			logger.WithError(err).Fatal("Migration down failed")
		}
	case "status":
		status, err := migrations.GetMigrationStatus()
		if err != nil {
			logger.WithError(err).Fatal("Failed to get migration status")
		}
		fmt.Printf("Migration Status:\n")
		fmt.Printf("  Version: %d\n", status.Version)
		fmt.Printf("  Applied: %t\n", status.Applied)
		fmt.Printf("  Dirty: %t\n", status.Dirty)
	case "import":
		if err := importJSON(*jsonDir, logger); err != nil {
			logger.WithError(err).Fatal("Import failed")
		}
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, import")
	}

	logger.Info("Migration tool completed successfully")
}

// importJSON seeds the configured store, so STORE_TYPE selects DynamoDB or
// the SQLite file
func importJSON(dir string, logger *logrus.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	container, err := server.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	directory, err := container.DirectoryService()
	if err != nil {
		return err
	}
	admins, err := container.AdminService()
	if err != nil {
		return err
	}

	result, err := migration.NewJSONImporter(directory, admins, dir, logger).Import(ctx)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Println("  skipped", w)
	}
	fmt.Printf("Imported %d users and %d admins\n", result.UsersImported, result.AdminsImported)
	return nil
}
