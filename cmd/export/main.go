package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/RafcikJ/10x-memo/internal/config"
	"github.com/RafcikJ/10x-memo/internal/database"
	"github.com/RafcikJ/10x-memo/internal/repository"
	"github.com/RafcikJ/10x-memo/internal/service"
)

func main() {
	output := flag.String("output", "", "Output file path (default: memo_export_YYYYMMDD_HHMMSS.xlsx)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	userID := flag.Arg(0)
	if _, err := uuid.Parse(userID); err != nil {
		log.Fatalf("Invalid user ID %q: must be a UUID", userID)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	listRepo := repository.NewListRepository(db)
	testRepo := repository.NewTestRepository(db)
	exportService := service.NewExportService(listRepo, testRepo)

	outputPath := *output
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("memo_export_%s.xlsx", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting data for user %s to: %s", userID, outputPath)
	if err := exportService.ExportUserData(userID, outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
}

func printUsage() {
	fmt.Println("10x-memo Data Export Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  export [options] <user-id>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -output <file>    Output file path (default: memo_export_YYYYMMDD_HHMMSS.xlsx)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  export 6f1e0d2c-9c4b-4f1e-8c2a-1b2c3d4e5f60")
	fmt.Println("  export -output report.xlsx 6f1e0d2c-9c4b-4f1e-8c2a-1b2c3d4e5f60")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH    SQLite database path (default: ./memo.db)")
	fmt.Println("  DB_URL     PostgreSQL or MySQL connection URL")
}
