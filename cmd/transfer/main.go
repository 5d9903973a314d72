package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gradekeeper/internal/config"
	"gradekeeper/internal/database"
	"gradekeeper/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: grades_YYYYMMDD_HHMMSS.csv)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	transferService := service.NewTransferService(db)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(transferService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(transferService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(transferService *service.TransferService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("grades_%s.csv", timestamp)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	if err := transferService.Export(file); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Exported grades to %s\n", outputPath)
}

func handleImport(transferService *service.TransferService, inputPath string) {
	file, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer file.Close()

	imported, err := transferService.Import(file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported %d grades from %s\n", imported, inputPath)
}

func printUsage() {
	fmt.Println("Usage: transfer <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export    Write all grades to a CSV file")
	fmt.Println("  import    Load grades from a CSV file")
}
