package dataprocessing

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// Canonical field names. Every caller goes through MapColumns; no layer
// renames spreadsheet columns on its own.
const (
	FieldClosingDate  = "closing_date"
	FieldTechnician   = "technician"
	FieldProductivity = "productivity"
	FieldProtocolID   = "protocol_id"
	FieldRegion       = "region"
)

// requiredFields are the canonical fields whose source columns must exist.
var requiredFields = []string{FieldClosingDate, FieldTechnician, FieldProductivity, FieldProtocolID}

// dateLayouts are the closing-date formats accepted, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
}

// MapResult is the outcome of mapping a raw table to canonical rows.
// Row-level problems are dropped and counted, never fatal.
type MapResult struct {
	Rows          []domain.CanonicalRow
	DroppedDates  int
	DroppedFields int
	HasRegion     bool
}

// MapColumns translates a raw table into canonical rows using the
// canonical-field → source-header mapping. It is a pure transform: the
// input table is not modified. If any required source column is absent the
// error lists every missing column at once.
func MapColumns(table *domain.RawTable, mapping map[string]string) (*MapResult, error) {
	indexes := make(map[string]int, len(mapping))
	var missing []string
	for _, field := range requiredFields {
		source, ok := mapping[field]
		if !ok || source == "" {
			missing = append(missing, field)
			continue
		}
		idx := table.ColumnIndex(source)
		if idx < 0 {
			missing = append(missing, source)
			continue
		}
		indexes[field] = idx
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NewMissingColumnsError(missing, table.Headers)
	}

	regionIdx := -1
	if source := mapping[FieldRegion]; source != "" {
		regionIdx = table.ColumnIndex(source)
	}

	result := &MapResult{
		Rows:      make([]domain.CanonicalRow, 0, len(table.Rows)),
		HasRegion: regionIdx >= 0,
	}

	for i, row := range table.Rows {
		technician := strings.TrimSpace(cellAt(row, indexes[FieldTechnician]))
		if technician == "" {
			result.DroppedFields++
			continue
		}

		productivity, err := parseNumber(cellAt(row, indexes[FieldProductivity]))
		if err != nil {
			result.DroppedFields++
			continue
		}

		closingDate, err := parseDate(cellAt(row, indexes[FieldClosingDate]))
		if err != nil {
			rowErr := &errors.UnparseableDateError{Row: i, Value: cellAt(row, indexes[FieldClosingDate])}
			slog.Debug("dropping row", slog.String("reason", rowErr.Error()))
			result.DroppedDates++
			continue
		}

		canonical := domain.CanonicalRow{
			ClosingDate:  closingDate,
			Technician:   technician,
			Productivity: productivity,
			ProtocolID:   strings.TrimSpace(cellAt(row, indexes[FieldProtocolID])),
		}
		if regionIdx >= 0 {
			canonical.Region = strings.TrimSpace(cellAt(row, regionIdx))
		}
		result.Rows = append(result.Rows, canonical)
	}

	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumber parses a productivity cell. Exports from the upstream system
// use both dot and comma decimal separators.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseDate tries each accepted layout in order. Excel serial dates are
// handled too since excelize returns raw cell text for unstyled cells.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, strconv.ErrSyntax
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// Excel serial date number (days since 1899-12-30)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, int(serial)), nil
	}

	return time.Time{}, strconv.ErrSyntax
}
