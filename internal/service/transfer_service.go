package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

// csvTimeFormat is the timestamp layout used in exported files
const csvTimeFormat = "2006-01-02 15:04:05"

// csvHeader is the fixed column order of the transfer format
var csvHeader = []string{"child", "subject", "type", "label", "score", "total", "redo_number", "date"}

// TransferService handles bulk CSV export and import of grade rows
type TransferService struct {
	db *database.DB
}

// NewTransferService creates a new transfer service
func NewTransferService(db *database.DB) *TransferService {
	return &TransferService{db: db}
}

// Export writes every grade as one CSV row, joined through its gradebook and
// child, in child, gradebook, grade insertion order.
func (s *TransferService) Export(w io.Writer) error {
	rows, err := repository.NewGradeRepository(s.db).GetAllForExport()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ChildName,
			row.Subject,
			string(row.GradeType),
			row.Label,
			strconv.FormatFloat(row.Score, 'g', -1, 64),
			strconv.FormatFloat(row.Total, 'g', -1, 64),
			strconv.Itoa(row.RedoNumber),
			row.CreatedAt.Format(csvTimeFormat),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Import reads a CSV in the transfer format and creates missing children,
// gradebooks and grades. Rows whose (gradebook, label, redo_number) already
// exist are skipped, so re-importing a file is a no-op. The whole import
// runs in one transaction; any parse failure rolls everything back.
// Returns the number of newly created grade rows.
func (s *TransferService) Import(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	childRepo := repository.NewChildRepository(tx)
	gbRepo := repository.NewGradebookRepository(tx)
	gradeRepo := repository.NewGradeRepository(tx)

	imported := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, &ImportError{Row: line, Err: err}
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		childName := field("child")
		subject := field("subject")
		gradeType := field("type")
		label := field("label")
		scoreStr := field("score")
		totalStr := field("total")
		redoStr := field("redo_number")

		// Incomplete rows are skipped, not fatal
		if childName == "" || gradeType == "" || label == "" || scoreStr == "" || totalStr == "" {
			continue
		}
		if subject == "" {
			subject = models.DefaultCourseName
		}

		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			return 0, &ImportError{Row: line, Err: fmt.Errorf("invalid score %q: %w", scoreStr, err)}
		}
		total, err := strconv.ParseFloat(totalStr, 64)
		if err != nil {
			return 0, &ImportError{Row: line, Err: fmt.Errorf("invalid total %q: %w", totalStr, err)}
		}
		redoNumber := 0
		if redoStr != "" {
			redoNumber, err = strconv.Atoi(redoStr)
			if err != nil {
				return 0, &ImportError{Row: line, Err: fmt.Errorf("invalid redo_number %q: %w", redoStr, err)}
			}
		}

		child, err := childRepo.GetByName(childName)
		if err != nil {
			return 0, err
		}
		if child == nil {
			child, err = childRepo.Create(childName)
			if err != nil {
				return 0, err
			}
		}

		gradebook, err := gbRepo.GetByChildAndName(child.ID, subject)
		if err != nil {
			return 0, err
		}
		if gradebook == nil {
			gradebook, err = gbRepo.Create(child.ID, subject, false)
			if err != nil {
				return 0, err
			}
		}

		exists, err := gradeRepo.AttemptExists(gradebook.ID, label, redoNumber)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		if _, err := gradeRepo.Create(gradebook.ID, models.GradeType(gradeType), label, score, total, redoNumber); err != nil {
			return 0, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return imported, nil
}
