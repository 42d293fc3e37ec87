package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into a fresh directory so Load picks up neither
// a real config.yaml nor pollutes the repo with data directories.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Goals.DailyGoal)
	assert.Equal(t, 40, cfg.Goals.WeeklyGoal)
	assert.Equal(t, "Nome Colaborador", cfg.Columns.Technician)
	assert.Equal(t, 4, cfg.Analysis.TrendWindow)
	assert.Equal(t, 0.3, cfg.Analysis.RegionFailureRate)

	// The embedded holiday calendar kicks in when no file provides one.
	require.Contains(t, cfg.Holidays, 2025)
	assert.Len(t, cfg.Holidays[2025], 10)

	// Data directories are created relative to the working directory.
	for _, sub := range []string{"data", "data/uploads", "data/reports", "logs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PRODBOARD_GOALS_DAILY_GOAL", "6")
	t.Setenv("PRODBOARD_GOALS_WEEKLY_GOAL", "30")
	t.Setenv("PRODBOARD_UPLOAD_SHEET_NAME", "Export")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Goals.DailyGoal)
	assert.Equal(t, 30, cfg.Goals.WeeklyGoal)
	assert.Equal(t, "Export", cfg.Upload.SheetName)
}

func TestLoadHolidaysFromFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
holidays:
  2026:
    - "2026-01-01"
    - "2026-12-25"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Contains(t, cfg.Holidays, 2026)
	assert.Len(t, cfg.Holidays[2026], 2)
	assert.NotContains(t, cfg.Holidays, 2025)
}

func TestLoadConfigFileEnvOverride(t *testing.T) {
	chdirTemp(t)

	other := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := `
holidays:
  2026:
    - "2026-04-21"
`
	require.NoError(t, os.WriteFile(other, []byte(yaml), 0o644))
	t.Setenv("PRODBOARD_CONFIG_FILE", other)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-04-21"}, cfg.Holidays[2026])
}

func TestLoadRejectsBadHoliday(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
holidays:
  2026:
    - "not a date"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestValidateHolidayYearMismatch(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Holidays = map[int][]string{2025: {"2024-12-25"}}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed under year")
}

func TestHolidayDates(t *testing.T) {
	cfg := &Config{Holidays: map[int][]string{
		2025: {"2025-12-25", "2025-01-01", "2025-05-01"},
	}}

	dates := cfg.HolidayDates(2025)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), dates[2])

	assert.Empty(t, cfg.HolidayDates(1999))
}

func TestAllHolidayDates(t *testing.T) {
	cfg := &Config{Holidays: map[int][]string{
		2025: {"2025-01-01"},
		2024: {"2024-01-01", "2024-12-25"},
	}}

	dates := cfg.AllHolidayDates()
	require.Len(t, dates, 3)
	// Years come out in ascending order regardless of map iteration.
	assert.Equal(t, 2024, dates[0].Year())
	assert.Equal(t, 2025, dates[2].Year())
}

func TestColumnMapping(t *testing.T) {
	cfg := &Config{Columns: ColumnsConfig{
		ClosingDate:  "Data",
		Technician:   "Tecnico",
		Productivity: "Qtd",
		ProtocolID:   "Protocolo",
	}}

	m := cfg.ColumnMapping()
	assert.Equal(t, "Tecnico", m["technician"])
	assert.NotContains(t, m, "region")

	cfg.Columns.Region = "Bairro"
	assert.Equal(t, "Bairro", cfg.ColumnMapping()["region"])
}
