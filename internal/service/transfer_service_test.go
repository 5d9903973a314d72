package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

func TestExportEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	transfer := NewTransferService(db)

	var buf bytes.Buffer
	if err := transfer.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := "child,subject,type,label,score,total,redo_number,date"
	if got != want {
		t.Errorf("empty export = %q, want header only", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestDB(t)
	roster := NewRosterService(src)
	_, gradebook := seedChild(t, roster, "Alice")

	gradeRepo := repository.NewGradeRepository(src)
	seeds := []struct {
		gradeType models.GradeType
		label     string
		score     float64
		total     float64
		redo      int
	}{
		{models.GradeTypeHomework, "Lesson 1", 18, 30, 0},
		{models.GradeTypeHomework, "Lesson 1", 25, 30, 1},
		{models.GradeTypeTest, "Test 1", 15.5, 20, 0},
	}
	for _, s := range seeds {
		if _, err := gradeRepo.Create(gradebook.ID, s.gradeType, s.label, s.score, s.total, s.redo); err != nil {
			t.Fatalf("Failed to seed grade: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := NewTransferService(src).Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	exported := buf.String()

	// Import into a fresh database
	dst := newTestDB(t)
	transfer := NewTransferService(dst)

	imported, err := transfer.Import(strings.NewReader(exported))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != len(seeds) {
		t.Errorf("imported = %d, want %d", imported, len(seeds))
	}

	child, err := repository.NewChildRepository(dst).GetByName("Alice")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if child == nil {
		t.Fatal("child not recreated on import")
	}

	gb, err := repository.NewGradebookRepository(dst).GetByChildAndName(child.ID, gradebook.Name)
	if err != nil {
		t.Fatalf("GetByChildAndName failed: %v", err)
	}
	if gb == nil {
		t.Fatal("gradebook not recreated on import")
	}

	dstRepo := repository.NewGradeRepository(dst)
	for _, s := range seeds {
		exists, err := dstRepo.AttemptExists(gb.ID, s.label, s.redo)
		if err != nil {
			t.Fatalf("AttemptExists failed: %v", err)
		}
		if !exists {
			t.Errorf("attempt (%s, redo %d) missing after import", s.label, s.redo)
		}
	}

	// Re-importing the same file is a no-op
	imported, err = transfer.Import(strings.NewReader(exported))
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if imported != 0 {
		t.Errorf("second import created %d rows, want 0", imported)
	}
}

func TestImportSkipsIncompleteRows(t *testing.T) {
	db := newTestDB(t)
	transfer := NewTransferService(db)

	input := "child,subject,type,label,score,total,redo_number,date\n" +
		"Alice,Math,homework,Lesson 1,18,30,0,2026-01-05 10:00:00\n" +
		",Math,homework,Lesson 2,20,30,0,2026-01-06 10:00:00\n" +
		"Alice,Math,homework,,20,30,0,2026-01-06 10:00:00\n" +
		"Alice,Math,homework,Lesson 3,,30,0,2026-01-06 10:00:00\n"

	imported, err := transfer.Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported = %d, want 1 (incomplete rows skipped)", imported)
	}
}

func TestImportDefaults(t *testing.T) {
	db := newTestDB(t)
	transfer := NewTransferService(db)

	// Blank subject falls back to the default course, blank redo to 0
	input := "child,subject,type,label,score,total,redo_number,date\n" +
		"Bob,,test,Test 1,17,20,,2026-01-05 10:00:00\n"

	imported, err := transfer.Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 1 {
		t.Fatalf("imported = %d, want 1", imported)
	}

	child, err := repository.NewChildRepository(db).GetByName("Bob")
	if err != nil || child == nil {
		t.Fatalf("child lookup failed: %v", err)
	}
	gb, err := repository.NewGradebookRepository(db).GetByChildAndName(child.ID, models.DefaultCourseName)
	if err != nil {
		t.Fatalf("GetByChildAndName failed: %v", err)
	}
	if gb == nil {
		t.Fatal("blank subject did not map to default course")
	}

	exists, err := repository.NewGradeRepository(db).AttemptExists(gb.ID, "Test 1", 0)
	if err != nil {
		t.Fatalf("AttemptExists failed: %v", err)
	}
	if !exists {
		t.Error("blank redo_number did not default to 0")
	}
}

func TestImportParseErrorRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	transfer := NewTransferService(db)

	input := "child,subject,type,label,score,total,redo_number,date\n" +
		"Alice,Math,homework,Lesson 1,18,30,0,2026-01-05 10:00:00\n" +
		"Alice,Math,homework,Lesson 2,not-a-number,30,0,2026-01-06 10:00:00\n"

	_, err := transfer.Import(strings.NewReader(input))
	if err == nil {
		t.Fatal("Import should fail on unparseable score")
	}

	var importErr *ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error type = %T, want *ImportError", err)
	}
	if importErr.Row != 3 {
		t.Errorf("error row = %d, want 3", importErr.Row)
	}

	// The valid first row must not have been committed
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM grades").Scan(&count); err != nil {
		t.Fatalf("Failed to count grades: %v", err)
	}
	if count != 0 {
		t.Errorf("grades after failed import = %d, want 0", count)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM children").Scan(&count); err != nil {
		t.Fatalf("Failed to count children: %v", err)
	}
	if count != 0 {
		t.Errorf("children after failed import = %d, want 0", count)
	}
}

func TestImportEmptyFile(t *testing.T) {
	db := newTestDB(t)
	transfer := NewTransferService(db)

	imported, err := transfer.Import(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Import of empty file failed: %v", err)
	}
	if imported != 0 {
		t.Errorf("imported = %d, want 0", imported)
	}
}
