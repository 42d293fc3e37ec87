package dataprocessing

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// ParseWorkbook reads the productivity workbook and extracts the analytic
// sheet as a raw table. The configured sheet name is tried first; when it
// is absent the sheets are scanned for one whose header row contains the
// expected source columns, since exported workbooks frequently carry
// slightly different sheet names.
func ParseWorkbook(filePath, sheetName string, expectedHeaders []string) (*domain.RawTable, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewMalformedInputError("failed to open workbook", err)
	}
	defer f.Close()

	rows, resolved, err := resolveSheet(f, sheetName, expectedHeaders)
	if err != nil {
		return nil, err
	}

	headerIdx := headerRowIndex(rows, expectedHeaders)
	if headerIdx < 0 {
		return nil, errors.NewMalformedInputError("no header row found in sheet "+resolved, nil)
	}

	table := &domain.RawTable{
		SheetName: resolved,
		Headers:   rows[headerIdx],
		Rows:      dataRows(rows[headerIdx+1:]),
	}

	if len(table.Rows) == 0 {
		return nil, errors.NewMalformedInputError("sheet "+resolved+" has no data rows", nil)
	}

	slog.Debug("workbook parsed",
		slog.String("sheet", resolved),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)),
	)

	return table, nil
}

// resolveSheet finds the sheet holding productivity data. Exact name match
// wins; otherwise every sheet is scanned for the expected headers.
func resolveSheet(f *excelize.File, sheetName string, expectedHeaders []string) ([][]string, string, error) {
	if sheetName != "" {
		if rows, err := f.GetRows(sheetName); err == nil && len(rows) > 0 {
			return rows, sheetName, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if headerRowIndex(rows, expectedHeaders) >= 0 {
			slog.Info("sheet resolved by header scan", slog.String("sheet", name))
			return rows, name, nil
		}
	}

	return nil, "", errors.NewMalformedInputError("no sheet contains the expected columns", nil)
}

// headerRowIndex locates the first row containing at least half of the
// expected headers. Scans only the leading rows; exports sometimes carry a
// title banner above the header.
func headerRowIndex(rows [][]string, expectedHeaders []string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		matches := 0
		for _, want := range expectedHeaders {
			if containsHeader(rows[i], want) {
				matches++
			}
		}
		if len(expectedHeaders) > 0 && matches*2 >= len(expectedHeaders) {
			return i
		}
	}
	return -1
}

func containsHeader(row []string, header string) bool {
	want := strings.TrimSpace(header)
	for _, cell := range row {
		if strings.TrimSpace(cell) == want {
			return true
		}
	}
	return false
}

// dataRows drops fully empty trailing/interleaved rows.
func dataRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}
