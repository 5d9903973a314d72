package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gradekeeper/internal/config"
	"gradekeeper/internal/database"
	"gradekeeper/internal/handlers"
	"gradekeeper/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Initialize services
	rosterService := service.NewRosterService(db)
	gradeService := service.NewGradeService(db, rosterService)
	reportService := service.NewReportService(db, rosterService)
	transferService := service.NewTransferService(db)

	// Initialize handlers
	gradeHandler := handlers.NewGradeHandler(gradeService, rosterService, templates)
	reportHandler := handlers.NewReportHandler(reportService, templates)
	rosterHandler := handlers.NewRosterHandler(rosterService, templates)
	transferHandler := handlers.NewTransferHandler(transferService)

	// Setup routes
	mux := http.NewServeMux()

	// Grade entry
	mux.HandleFunc("GET /{$}", gradeHandler.ShowHomework)
	mux.HandleFunc("GET /tests", gradeHandler.ShowTests)
	mux.HandleFunc("POST /grades/add", gradeHandler.AddGrade)
	mux.HandleFunc("POST /grades/confirm", gradeHandler.ConfirmGrade)

	// Reports
	mux.HandleFunc("GET /grades", reportHandler.ShowGrades)

	// Children
	mux.HandleFunc("GET /children", rosterHandler.ShowChildren)
	mux.HandleFunc("POST /children/create", rosterHandler.CreateChild)
	mux.HandleFunc("POST /children/{id}/delete", rosterHandler.DeleteChild)

	// Settings
	mux.HandleFunc("GET /settings", rosterHandler.ShowSettings)
	mux.HandleFunc("POST /settings/courses/{id}/activate", rosterHandler.ActivateCourse)
	mux.HandleFunc("POST /settings/courses/{id}/rename", rosterHandler.RenameCourse)
	mux.HandleFunc("POST /settings/courses/{id}/delete", rosterHandler.DeleteCourse)
	mux.HandleFunc("POST /settings/courses/{id}/totals", rosterHandler.UpdateTotals)
	mux.HandleFunc("POST /settings/children/{childId}/courses/add", rosterHandler.AddCourse)

	// CSV transfer
	mux.HandleFunc("GET /export.csv", transferHandler.ExportCSV)
	mux.HandleFunc("POST /import", transferHandler.ImportCSV)

	// Wrap with request id and logging middleware
	handler := handlers.RequestID(handlers.Logging(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

func loadTemplates(templatesPath string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"fmtAvg": func(avg float64) string {
			return fmt.Sprintf("%.1f", avg)
		},
	}

	pattern := filepath.Join(templatesPath, "*.tmpl")
	templates, err := template.New("").Funcs(funcMap).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return templates, nil
}
