// Package testutil provides shared helpers for tests: a buffered slog
// handler for asserting on log output and builders for weekly summary
// fixtures.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedSlogHandler captures log records for testing
type BufferedSlogHandler struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// NewBufferedSlogHandler creates a new buffered handler for testing
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{
		records: make([]LogRecord, 0),
		t:       t,
	}
}

// NewTestLogger returns a logger backed by a buffered handler.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

// Handle implements slog.Handler
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.records = append(h.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// Enabled implements slog.Handler; tests capture all levels.
func (h *BufferedSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler
func (h *BufferedSlogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// WithGroup implements slog.Handler
func (h *BufferedSlogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Records returns all captured log records
func (h *BufferedSlogHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogRecord, len(h.records))
	copy(out, h.records)
	return out
}

// HasMessage reports whether any captured record carries the message.
func (h *BufferedSlogHandler) HasMessage(msg string) bool {
	for _, r := range h.Records() {
		if r.Message == msg {
			return true
		}
	}
	return false
}

// Week returns the Monday of the ISO week offset weeks after the base
// Monday 2025-01-06. Fixtures use it to build consistent series.
func Week(offset int) time.Time {
	base := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, 7*offset)
}

// Summary builds one weekly summary fixture with the derived GoalMet flag.
func Summary(technician string, week int, total float64, goal int) domain.WeeklySummary {
	return domain.WeeklySummary{
		Technician:        technician,
		WeekStart:         Week(week),
		ProductivityTotal: total,
		RecordCount:       1,
		WeeklyGoal:        goal,
		GoalMet:           total >= float64(goal),
	}
}

// Series builds a weekly series for one technician from productivity
// totals, one per consecutive week against a fixed goal.
func Series(technician string, goal int, totals ...float64) []domain.WeeklySummary {
	out := make([]domain.WeeklySummary, 0, len(totals))
	for i, total := range totals {
		out = append(out, Summary(technician, i, total, goal))
	}
	return out
}
