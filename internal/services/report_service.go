// Package services orchestrates the productivity pipeline: workbook
// parsing, column mapping, weekly aggregation, goal calculation, and the
// analysis passes. Handlers and the CLI talk to this layer only.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/analysis"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/config"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/dataprocessing"
	apperrors "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// ReportService builds report snapshots from workbooks and answers
// analysis queries against the most recent snapshot. The snapshot is
// replaced wholesale on each ingest; individual runs never mutate shared
// state, so reads need only the swap lock.
type ReportService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *domain.ReportSnapshot
}

// NewReportService creates a report service
func NewReportService(cfg *config.Config, logger *slog.Logger) *ReportService {
	return &ReportService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "report_service")),
	}
}

// thresholds converts analysis config into the analysis package's policy
// constants.
func (s *ReportService) thresholds() analysis.Thresholds {
	a := s.cfg.Analysis
	return analysis.Thresholds{
		TrendWindow:            a.TrendWindow,
		SlopeRising:            a.SlopeRising,
		SlopeFalling:           a.SlopeFalling,
		ForecastWindow:         a.ForecastWindow,
		OscillationMinWeeks:    a.OscillationMinWeeks,
		OscillationTransitions: a.OscillationTransitions,
		RegionFailureRate:      a.RegionFailureRate,
	}
}

// IngestUpload stores an uploaded workbook under the uploads directory and
// builds a fresh snapshot from it. The stored file is the only persisted
// medium; every build re-reads it from disk.
func (s *ReportService) IngestUpload(ctx context.Context, originalName string, r io.Reader) (*domain.ReportSnapshot, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := uuid.New().String() + ext
	storedPath := s.cfg.UploadPath(storedName)

	f, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(r, s.cfg.Upload.MaxSizeBytes+1))
	closeErr := f.Close()
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("store upload: %w", closeErr)
	}
	if written > s.cfg.Upload.MaxSizeBytes {
		os.Remove(storedPath)
		return nil, apperrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			"Workbook exceeds the maximum upload size",
			map[string]interface{}{"max_size_bytes": s.cfg.Upload.MaxSizeBytes})
	}

	s.logger.InfoContext(ctx, "workbook stored",
		slog.String("original_name", originalName),
		slog.String("stored_name", storedName),
		slog.Int64("bytes", written),
	)

	return s.BuildFromFile(ctx, storedPath)
}

// BuildFromFile runs the full pipeline over one workbook and installs the
// result as the current snapshot.
func (s *ReportService) BuildFromFile(ctx context.Context, path string) (*domain.ReportSnapshot, error) {
	start := time.Now()

	mapping := s.cfg.ColumnMapping()
	expectedHeaders := make([]string, 0, len(mapping))
	for _, source := range mapping {
		expectedHeaders = append(expectedHeaders, source)
	}

	table, err := dataprocessing.ParseWorkbook(path, s.cfg.Upload.SheetName, expectedHeaders)
	if err != nil {
		reportBuildFailures.Inc()
		return nil, err
	}
	rowsIngested.Add(float64(len(table.Rows)))

	mapped, err := dataprocessing.MapColumns(table, mapping)
	if err != nil {
		reportBuildFailures.Inc()
		return nil, err
	}
	rowsDropped.WithLabelValues("unparseable_date").Add(float64(mapped.DroppedDates))
	rowsDropped.WithLabelValues("malformed_field").Add(float64(mapped.DroppedFields))

	policy := dataprocessing.NewGoalPolicy(
		s.cfg.Goals.DailyGoal,
		s.cfg.Goals.WeeklyGoal,
		s.cfg.AllHolidayDates(),
	)

	summaries := dataprocessing.Aggregate(mapped.Rows, policy)
	dataprocessing.SortSummaries(summaries)

	th := s.thresholds()
	alerts := analysis.DetectAlerts(summaries, th)
	for _, a := range alerts {
		alertsEmitted.WithLabelValues(string(a.Kind)).Inc()
	}

	snapshot := &domain.ReportSnapshot{
		ID:          uuid.New().String(),
		SourceFile:  filepath.Base(path),
		GeneratedAt: time.Now().UTC(),
		Summaries:   summaries,
		Alerts:      alerts,
		Streaks:     analysis.Streaks(summaries),
		Diagnostics: domain.IngestDiagnostics{
			TotalRows:       len(table.Rows),
			DroppedDates:    mapped.DroppedDates,
			DroppedFields:   mapped.DroppedFields,
			AggregatedRows:  len(summaries),
			TechnicianCount: len(snapshotTechnicians(summaries)),
		},
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	reportsBuilt.Inc()
	s.logger.InfoContext(ctx, "report built",
		slog.String("report_id", snapshot.ID),
		slog.Int("raw_rows", snapshot.Diagnostics.TotalRows),
		slog.Int("dropped_dates", snapshot.Diagnostics.DroppedDates),
		slog.Int("dropped_fields", snapshot.Diagnostics.DroppedFields),
		slog.Int("weekly_rows", len(summaries)),
		slog.Int("alerts", len(alerts)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return snapshot, nil
}

// Snapshot returns the current snapshot, or NoReportError when nothing has
// been ingested yet.
func (s *ReportService) Snapshot(ctx context.Context) (*domain.ReportSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, &apperrors.NoReportError{}
	}
	return s.snapshot, nil
}

// TrendFor computes the trailing-window trend for one technician against
// the current snapshot. A window of 0 uses the configured default.
func (s *ReportService) TrendFor(ctx context.Context, technician string, window int) (*domain.TrendResult, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !s.hasTechnician(snapshot, technician) {
		return nil, &apperrors.TechnicianNotFoundError{Technician: technician}
	}

	th := s.thresholds()
	if window > 0 {
		th.TrendWindow = window
	}
	result, err := analysis.Trend(snapshot.Summaries, technician, th)
	if err != nil {
		s.logger.InfoContext(ctx, "trend unavailable",
			slog.String("technician", technician),
			slog.String("reason", err.Error()),
		)
		return result, err
	}
	return result, nil
}

// ForecastFor estimates next week's productivity for one technician.
func (s *ReportService) ForecastFor(ctx context.Context, technician string, model domain.ForecastModel) (*domain.ForecastResult, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !s.hasTechnician(snapshot, technician) {
		return nil, &apperrors.TechnicianNotFoundError{Technician: technician}
	}
	return analysis.Forecast(snapshot.Summaries, technician, model, s.thresholds())
}

// Alerts returns the alert list of the current snapshot.
func (s *ReportService) Alerts(ctx context.Context) ([]domain.Alert, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Alerts, nil
}

// Streaks returns the streak stats of the current snapshot.
func (s *ReportService) Streaks(ctx context.Context) ([]domain.StreakStats, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Streaks, nil
}

func (s *ReportService) hasTechnician(snapshot *domain.ReportSnapshot, technician string) bool {
	for _, row := range snapshot.Summaries {
		if row.Technician == technician {
			return true
		}
	}
	return false
}

func snapshotTechnicians(summaries []domain.WeeklySummary) map[string]bool {
	set := make(map[string]bool)
	for _, s := range summaries {
		set[s.Technician] = true
	}
	return set
}
