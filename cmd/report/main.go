// Command report runs the productivity pipeline once over a workbook and
// writes the weekly summary and alert tables as CSV.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/config"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/infrastructure"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/services"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/validation"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

func main() {
	input := flag.String("in", "", "path to the productivity workbook (required)")
	outputDir := flag.String("out", "", "output directory for CSV files (defaults to configured reports dir)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: report -in workbook.xlsx [-out dir]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	if err := run(cfg, logger, *input, *outputDir); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, input, outputDir string) error {
	ctx := context.Background()

	validator := validation.NewWorkbookValidator(logger)
	if err := validator.ValidateWorkbookPath(input); err != nil {
		return errors.Fatal("validate input", err)
	}
	if err := validator.ValidateOutputDirectory(outputDir); err != nil {
		return errors.Fatal("validate output", err)
	}

	service := services.NewReportService(cfg, logger)

	snapshot, err := service.BuildFromFile(ctx, input)
	if err != nil {
		return errors.Fatal("build report", err)
	}

	stamp := time.Now().Format("2006-01-02")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("weekly_summary_%s.csv", stamp))
	if err := writeSummaryCSV(summaryPath, snapshot.Summaries); err != nil {
		return errors.Fatal("write summary", err)
	}

	alertsPath := filepath.Join(outputDir, fmt.Sprintf("alerts_%s.csv", stamp))
	if err := writeAlertsCSV(alertsPath, snapshot.Alerts); err != nil {
		return errors.Fatal("write alerts", err)
	}

	logger.Info("report written",
		"summary", summaryPath,
		"alerts", alertsPath,
		"weekly_rows", len(snapshot.Summaries),
		"alert_count", len(snapshot.Alerts),
		"dropped_dates", snapshot.Diagnostics.DroppedDates,
	)
	return nil
}

func writeSummaryCSV(path string, summaries []domain.WeeklySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Technician", "WeekStart", "ProductivityTotal", "RecordCount", "WeeklyGoal", "GoalMet", "Region"}); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.Technician,
			s.WeekStart.Format("2006-01-02"),
			strconv.FormatFloat(s.ProductivityTotal, 'f', 2, 64),
			strconv.Itoa(s.RecordCount),
			strconv.Itoa(s.WeeklyGoal),
			strconv.FormatBool(s.GoalMet),
			s.Region,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeAlertsCSV(path string, alerts []domain.Alert) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Kind", "Subject", "Severity", "Message"}); err != nil {
		return err
	}
	for _, a := range alerts {
		if err := w.Write([]string{string(a.Kind), a.Subject, string(a.Severity), a.Message}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
