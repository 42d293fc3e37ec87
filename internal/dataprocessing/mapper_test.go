package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

func testMapping() map[string]string {
	return map[string]string{
		FieldClosingDate:  "Closing Date",
		FieldTechnician:   "Technician",
		FieldProductivity: "Productivity",
		FieldProtocolID:   "Protocol",
	}
}

func testTable(rows [][]string) *domain.RawTable {
	return &domain.RawTable{
		SheetName: "data",
		Headers:   []string{"Closing Date", "Technician", "Productivity", "Protocol"},
		Rows:      rows,
	}
}

func TestMapColumns(t *testing.T) {
	table := testTable([][]string{
		{"2025-01-07", "Alice", "9.5", "P-1"},
		{"2025-01-08", "Bob", "7,25", "P-2"},
	})

	result, err := MapColumns(table, testMapping())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "Alice", result.Rows[0].Technician)
	assert.Equal(t, 9.5, result.Rows[0].Productivity)
	assert.Equal(t, "P-1", result.Rows[0].ProtocolID)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), result.Rows[0].ClosingDate)

	// Comma decimal separator accepted
	assert.Equal(t, 7.25, result.Rows[1].Productivity)

	assert.Zero(t, result.DroppedDates)
	assert.Zero(t, result.DroppedFields)
	assert.False(t, result.HasRegion)
}

func TestMapColumnsMissingColumns(t *testing.T) {
	table := &domain.RawTable{
		Headers: []string{"Closing Date", "Protocol"},
		Rows:    [][]string{{"2025-01-07", "P-1"}},
	}

	_, err := MapColumns(table, testMapping())
	require.Error(t, err)

	var missingErr *apperrors.MissingColumnsError
	require.ErrorAs(t, err, &missingErr)

	// Every absent column named, not just the first
	assert.ElementsMatch(t, []string{"Technician", "Productivity"}, missingErr.Missing)
	assert.Contains(t, err.Error(), "Technician")
	assert.Contains(t, err.Error(), "Productivity")
}

func TestMapColumnsDropsBadRows(t *testing.T) {
	table := testTable([][]string{
		{"2025-01-07", "Alice", "9", "P-1"},
		{"not a date", "Alice", "5", "P-2"},
		{"2025-01-08", "", "5", "P-3"},
		{"2025-01-08", "Bob", "abc", "P-4"},
	})

	result, err := MapColumns(table, testMapping())
	require.NoError(t, err)

	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.DroppedDates)
	assert.Equal(t, 2, result.DroppedFields)
}

func TestMapColumnsRegionOptional(t *testing.T) {
	mapping := testMapping()
	mapping[FieldRegion] = "Neighborhood"

	table := &domain.RawTable{
		Headers: []string{"Closing Date", "Technician", "Productivity", "Protocol", "Neighborhood"},
		Rows: [][]string{
			{"2025-01-07", "Alice", "9", "P-1", "Centro"},
		},
	}

	result, err := MapColumns(table, mapping)
	require.NoError(t, err)
	require.True(t, result.HasRegion)
	assert.Equal(t, "Centro", result.Rows[0].Region)

	// Region column absent from sheet: mapping still succeeds
	result, err = MapColumns(testTable([][]string{{"2025-01-07", "Alice", "9", "P-1"}}), mapping)
	require.NoError(t, err)
	assert.False(t, result.HasRegion)
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"iso", "2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"brazilian", "10/03/2025", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"iso with time", "2025-03-10 14:30:00", time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), true},
		{"excel serial", "45723", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "soon", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.value)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
