package service

import (
	"errors"
	"testing"

	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

func TestCreateChildCreatesDefaultCourse(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)

	child, err := roster.CreateChild("Alice")
	if err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}

	gradebooks, err := repository.NewGradebookRepository(db).GetByChild(child.ID)
	if err != nil {
		t.Fatalf("GetByChild failed: %v", err)
	}
	if len(gradebooks) != 1 {
		t.Fatalf("gradebook count = %d, want 1", len(gradebooks))
	}
	if gradebooks[0].Name != models.DefaultCourseName {
		t.Errorf("course name = %q, want %q", gradebooks[0].Name, models.DefaultCourseName)
	}
	if !gradebooks[0].IsActive {
		t.Error("default course should be active")
	}
	if gradebooks[0].HomeworkTotal != models.DefaultHomeworkTotal {
		t.Errorf("homework total = %d, want %d", gradebooks[0].HomeworkTotal, models.DefaultHomeworkTotal)
	}
}

func TestDeleteChildCascades(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, gradebook := seedChild(t, roster, "Alice")

	if _, err := repository.NewGradeRepository(db).Create(gradebook.ID, models.GradeTypeHomework, "Lesson 1", 18, 30, 0); err != nil {
		t.Fatalf("Failed to create grade: %v", err)
	}

	if err := roster.DeleteChild(child.ID); err != nil {
		t.Fatalf("DeleteChild failed: %v", err)
	}

	for _, table := range []string{"children", "gradebooks", "grades"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s rows remaining = %d, want 0", table, count)
		}
	}
}

func TestDeleteUnknownChild(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)

	err := roster.DeleteChild(999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteChild(999) = %v, want ErrNotFound", err)
	}
}

func TestDeleteLastCourseRefused(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, gradebook := seedChild(t, roster, "Alice")

	if err := roster.DeleteCourse(gradebook.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	// The only course survives
	gradebooks, err := repository.NewGradebookRepository(db).GetByChild(child.ID)
	if err != nil {
		t.Fatalf("GetByChild failed: %v", err)
	}
	if len(gradebooks) != 1 {
		t.Errorf("gradebook count = %d, want 1", len(gradebooks))
	}
}

func TestDeleteActiveCoursePromotesAnother(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, active := seedChild(t, roster, "Alice")

	if err := roster.AddCourse(child.ID, "Reading"); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	if err := roster.DeleteCourse(active.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	remaining, err := repository.NewGradebookRepository(db).GetByChild(child.ID)
	if err != nil {
		t.Fatalf("GetByChild failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("gradebook count = %d, want 1", len(remaining))
	}
	if remaining[0].Name != "Reading" {
		t.Errorf("remaining course = %q, want Reading", remaining[0].Name)
	}
	if !remaining[0].IsActive {
		t.Error("remaining course should have been promoted to active")
	}
}

func TestSetActiveCourseDeactivatesSiblings(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, _ := seedChild(t, roster, "Alice")

	if err := roster.AddCourse(child.ID, "Reading"); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	gbRepo := repository.NewGradebookRepository(db)
	reading, err := gbRepo.GetByChildAndName(child.ID, "Reading")
	if err != nil {
		t.Fatalf("GetByChildAndName failed: %v", err)
	}

	if err := roster.SetActiveCourse(reading.ID); err != nil {
		t.Fatalf("SetActiveCourse failed: %v", err)
	}

	gradebooks, err := gbRepo.GetByChild(child.ID)
	if err != nil {
		t.Fatalf("GetByChild failed: %v", err)
	}

	activeCount := 0
	for _, gb := range gradebooks {
		if gb.IsActive {
			activeCount++
			if gb.ID != reading.ID {
				t.Errorf("active course = %q, want Reading", gb.Name)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("active count = %d, want 1", activeCount)
	}
}

func TestAddCourseDuplicateSilentlyRefused(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, _ := seedChild(t, roster, "Alice")

	if err := roster.AddCourse(child.ID, "Math"); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	gradebooks, err := repository.NewGradebookRepository(db).GetByChild(child.ID)
	if err != nil {
		t.Fatalf("GetByChild failed: %v", err)
	}
	if len(gradebooks) != 1 {
		t.Errorf("gradebook count = %d, want 1 (duplicate refused)", len(gradebooks))
	}
}

func TestRenameCourseConflictRefused(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, math := seedChild(t, roster, "Alice")

	if err := roster.AddCourse(child.ID, "Reading"); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	// Renaming onto a sibling's name is a no-op
	if err := roster.RenameCourse(math.ID, "Reading"); err != nil {
		t.Fatalf("RenameCourse failed: %v", err)
	}

	gb, err := repository.NewGradebookRepository(db).GetByID(math.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gb.Name != "Math" {
		t.Errorf("course name = %q, want Math (conflicting rename refused)", gb.Name)
	}

	// Renaming to a fresh name works
	if err := roster.RenameCourse(math.ID, "Algebra"); err != nil {
		t.Fatalf("RenameCourse failed: %v", err)
	}
	gb, err = repository.NewGradebookRepository(db).GetByID(math.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gb.Name != "Algebra" {
		t.Errorf("course name = %q, want Algebra", gb.Name)
	}
}

func TestEnsureActiveRepairsInvariant(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	child, gradebook := seedChild(t, roster, "Alice")

	// Break the invariant behind the service's back
	if _, err := db.Exec("UPDATE gradebooks SET is_active = ? WHERE child_id = ?", false, child.ID); err != nil {
		t.Fatalf("Failed to deactivate courses: %v", err)
	}

	active, err := roster.EnsureActive(child.ID)
	if err != nil {
		t.Fatalf("EnsureActive failed: %v", err)
	}
	if active.ID != gradebook.ID {
		t.Errorf("active course = %d, want %d (first course)", active.ID, gradebook.ID)
	}
	if !active.IsActive {
		t.Error("returned course not marked active")
	}

	// The repair is persisted
	stored, err := repository.NewGradebookRepository(db).GetActiveForChild(child.ID)
	if err != nil {
		t.Fatalf("GetActiveForChild failed: %v", err)
	}
	if stored == nil || stored.ID != gradebook.ID {
		t.Error("repair was not persisted")
	}
}

func TestEnsureActiveNoCourses(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)

	if _, err := roster.EnsureActive(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("EnsureActive(999) = %v, want ErrNotFound", err)
	}
}

func TestUpdateCourseTotals(t *testing.T) {
	db := newTestDB(t)
	roster := NewRosterService(db)
	_, gradebook := seedChild(t, roster, "Alice")

	hw := 25
	if err := roster.UpdateCourseTotals(gradebook.ID, &hw, nil); err != nil {
		t.Fatalf("UpdateCourseTotals failed: %v", err)
	}

	gb, err := repository.NewGradebookRepository(db).GetByID(gradebook.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gb.HomeworkTotal != 25 {
		t.Errorf("homework total = %d, want 25", gb.HomeworkTotal)
	}
	if gb.TestTotal != models.DefaultTestTotal {
		t.Errorf("test total = %d, want unchanged %d", gb.TestTotal, models.DefaultTestTotal)
	}
}
