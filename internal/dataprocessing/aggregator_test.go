package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStartAlwaysMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", day(2025, 1, 6), day(2025, 1, 6)},
		{"tuesday", day(2025, 1, 7), day(2025, 1, 6)},
		{"sunday", day(2025, 1, 12), day(2025, 1, 6)},
		{"saturday", day(2025, 1, 11), day(2025, 1, 6)},
		{"across month boundary", day(2025, 2, 1), day(2025, 1, 27)},
		{"across year boundary", day(2025, 1, 1), day(2024, 12, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestAggregateGroupsAndSums(t *testing.T) {
	policy := NewGoalPolicy(8, 40, nil)
	rows := []domain.CanonicalRow{
		{ClosingDate: day(2025, 1, 7), Technician: "Alice", Productivity: 10, ProtocolID: "P-1"},
		{ClosingDate: day(2025, 1, 9), Technician: "Alice", Productivity: 12, ProtocolID: "P-2"},
		{ClosingDate: day(2025, 1, 14), Technician: "Alice", Productivity: 5, ProtocolID: "P-3"},
		{ClosingDate: day(2025, 1, 8), Technician: "Bob", Productivity: 41, ProtocolID: "P-4"},
	}

	summaries := Aggregate(rows, policy)
	require.Len(t, summaries, 3)
	SortSummaries(summaries)

	assert.Equal(t, "Alice", summaries[0].Technician)
	assert.Equal(t, day(2025, 1, 6), summaries[0].WeekStart)
	assert.Equal(t, 22.0, summaries[0].ProductivityTotal)
	assert.Equal(t, 2, summaries[0].RecordCount)
	assert.False(t, summaries[0].GoalMet)

	assert.Equal(t, "Alice", summaries[1].Technician)
	assert.Equal(t, day(2025, 1, 13), summaries[1].WeekStart)
	assert.Equal(t, 5.0, summaries[1].ProductivityTotal)

	assert.Equal(t, "Bob", summaries[2].Technician)
	assert.Equal(t, 41.0, summaries[2].ProductivityTotal)
	assert.True(t, summaries[2].GoalMet)
}

func TestAggregateDerivedGoalMetInvariant(t *testing.T) {
	policy := NewGoalPolicy(8, 40, []time.Time{day(2025, 1, 7)})
	rows := []domain.CanonicalRow{
		{ClosingDate: day(2025, 1, 6), Technician: "Alice", Productivity: 32},
		{ClosingDate: day(2025, 1, 13), Technician: "Alice", Productivity: 32},
	}

	summaries := Aggregate(rows, policy)
	for _, s := range summaries {
		assert.Equal(t, s.ProductivityTotal >= float64(s.WeeklyGoal), s.GoalMet,
			"goal_met must follow from total vs goal for week %s", s.WeekStart)
	}
}

func TestAggregateWeekStartsAreMondays(t *testing.T) {
	policy := NewGoalPolicy(8, 40, nil)
	rows := []domain.CanonicalRow{
		{ClosingDate: day(2025, 3, 5), Technician: "A", Productivity: 1},
		{ClosingDate: day(2025, 3, 9), Technician: "B", Productivity: 1},
		{ClosingDate: day(2025, 3, 10), Technician: "C", Productivity: 1},
	}
	for _, s := range Aggregate(rows, policy) {
		assert.Equal(t, time.Monday, s.WeekStart.Weekday())
	}
}

func TestAggregateDominantRegion(t *testing.T) {
	policy := NewGoalPolicy(8, 40, nil)
	rows := []domain.CanonicalRow{
		{ClosingDate: day(2025, 1, 6), Technician: "Alice", Productivity: 1, Region: "Centro"},
		{ClosingDate: day(2025, 1, 7), Technician: "Alice", Productivity: 1, Region: "Norte"},
		{ClosingDate: day(2025, 1, 8), Technician: "Alice", Productivity: 1, Region: "Norte"},
	}

	summaries := Aggregate(rows, policy)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Norte", summaries[0].Region)
}
