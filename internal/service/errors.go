package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced child or gradebook does not exist
var ErrNotFound = errors.New("not found")

// ImportError reports a row-level failure during CSV import. The whole
// import is rolled back when one is returned.
type ImportError struct {
	Row int
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed at row %d: %v", e.Row, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
