// Package validation provides filesystem-level checks shared by the CLI
// and the upload path: workbook extension and readability, and output
// directory writability.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WorkbookValidator validates workbook inputs and report outputs before
// the pipeline runs, so structural problems fail fast with a clear error.
type WorkbookValidator struct {
	logger *slog.Logger
}

// NewWorkbookValidator creates a workbook validator
func NewWorkbookValidator(logger *slog.Logger) *WorkbookValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookValidator{logger: logger}
}

// workbookExtensions lists the accepted Excel formats.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// ValidateWorkbookPath checks that the path points at a readable Excel
// workbook.
func (v *WorkbookValidator) ValidateWorkbookPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !workbookExtensions[ext] {
		return fmt.Errorf("%s is not an Excel workbook (accepted: xlsx, xlsm, xls)", path)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("workbook %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("workbook %s is empty", path)
	}

	v.logger.Debug("workbook validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()),
	)
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is
// writable.
func (v *WorkbookValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(testFile)
	return nil
}
