package domain

import (
	"sort"
	"strings"
	"time"
)

// RawTable holds a worksheet exactly as read from the workbook: one header
// row and the remaining rows as raw string cells. Column order matches the
// sheet; no interpretation has happened yet.
type RawTable struct {
	SheetName string     `json:"sheet_name"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
}

// ColumnIndex returns the position of the given header, or -1 when absent.
// Header comparison trims surrounding whitespace.
func (t *RawTable) ColumnIndex(header string) int {
	want := strings.TrimSpace(header)
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == want {
			return i
		}
	}
	return -1
}

// CanonicalRow is one productivity record after column mapping. All fields
// except Region are guaranteed present; ClosingDate is a valid calendar date.
type CanonicalRow struct {
	ClosingDate  time.Time `json:"closing_date" validate:"required"`
	Technician   string    `json:"technician" validate:"required"`
	Productivity float64   `json:"productivity"`
	ProtocolID   string    `json:"protocol_id"`
	Region       string    `json:"region,omitempty"`
}

// WeeklySummary is one technician-week aggregate. WeekStart is always the
// Monday on or before the closing dates it covers. GoalMet is derived from
// ProductivityTotal and WeeklyGoal and is never set independently.
type WeeklySummary struct {
	Technician        string    `json:"technician" validate:"required"`
	WeekStart         time.Time `json:"week_start" validate:"required"`
	ProductivityTotal float64   `json:"productivity_total"`
	RecordCount       int       `json:"record_count" validate:"min=1"`
	WeeklyGoal        int       `json:"weekly_goal"`
	GoalMet           bool      `json:"goal_met"`
	Region            string    `json:"region,omitempty"`
}

// TrendStatus reports whether a trend could be computed for a technician.
type TrendStatus string

const (
	TrendStatusOK           TrendStatus = "ok"
	TrendStatusInsufficient TrendStatus = "insufficient_data"
)

// TrendDirection classifies the slope of a fitted trend line.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// TrendPoint is one observed or projected point on a trend line.
type TrendPoint struct {
	WeekStart time.Time `json:"week_start"`
	Value     float64   `json:"value"`
	Fitted    float64   `json:"fitted"`
}

// TrendResult is the outcome of a trailing-window linear fit over one
// technician's weekly series. Slope is productivity change per consecutive
// observed week, not per calendar week; gaps in the series shift it.
type TrendResult struct {
	Technician     string         `json:"technician"`
	Status         TrendStatus    `json:"status"`
	Direction      TrendDirection `json:"direction,omitempty"`
	Slope          float64        `json:"slope"`
	Intercept      float64        `json:"intercept"`
	RSquared       float64        `json:"r_squared"`
	Projection     float64        `json:"projection"`
	ProjectionDate time.Time      `json:"projection_date"`
	Window         []TrendPoint   `json:"window,omitempty"`
}

// ForecastModel selects how next-week productivity is estimated.
type ForecastModel string

const (
	ForecastMovingAverage ForecastModel = "moving_average"
	ForecastRegression    ForecastModel = "regression"
)

// ForecastResult is a next-week productivity estimate for one technician,
// compared against that technician's most recent weekly goal.
type ForecastResult struct {
	Technician string        `json:"technician"`
	Status     TrendStatus   `json:"status"`
	Model      ForecastModel `json:"model"`
	Forecast   float64       `json:"forecast"`
	LastGoal   float64       `json:"last_goal"`
	Delta      float64       `json:"delta"`
}

// AlertKind identifies the pattern that produced an alert.
type AlertKind string

const (
	AlertDecline      AlertKind = "performance_decline"
	AlertOscillation  AlertKind = "oscillation"
	AlertGrowth       AlertKind = "sustained_growth"
	AlertNeverMetGoal AlertKind = "never_met_goal"
	AlertRegion       AlertKind = "region_underperforming"
)

// AlertSeverity ranks alerts for display. No ordering is guaranteed among
// alerts of equal severity beyond stable technician iteration order.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert is a structured finding from the pattern detector. Subject is a
// technician name for per-technician kinds and a region name for
// AlertRegion.
type Alert struct {
	Kind     AlertKind     `json:"kind"`
	Subject  string        `json:"subject"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// StreakStats holds the longest consecutive goal-met and goal-missed runs
// for one technician over their full observed series.
type StreakStats struct {
	Technician    string `json:"technician"`
	LongestMet    int    `json:"longest_met"`
	LongestMissed int    `json:"longest_missed"`
	CurrentMet    int    `json:"current_met"`
	CurrentMissed int    `json:"current_missed"`
}

// IngestDiagnostics counts rows recovered locally during ingestion. These
// are surfaced for visibility and are never fatal.
type IngestDiagnostics struct {
	TotalRows       int `json:"total_rows"`
	DroppedDates    int `json:"dropped_dates"`
	DroppedFields   int `json:"dropped_fields"`
	AggregatedRows  int `json:"aggregated_rows"`
	TechnicianCount int `json:"technician_count"`
}

// ReportSnapshot is the complete output of one pipeline run, handed as-is
// to rendering collaborators (HTTP layer, CSV writer).
type ReportSnapshot struct {
	ID          string            `json:"id"`
	SourceFile  string            `json:"source_file"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summaries   []WeeklySummary   `json:"summaries"`
	Alerts      []Alert           `json:"alerts"`
	Streaks     []StreakStats     `json:"streaks"`
	Diagnostics IngestDiagnostics `json:"diagnostics"`
}

// Technicians returns the distinct technician names in the snapshot in
// sorted order.
func (s *ReportSnapshot) Technicians() []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range s.Summaries {
		if !seen[row.Technician] {
			seen[row.Technician] = true
			names = append(names, row.Technician)
		}
	}
	sort.Strings(names)
	return names
}
