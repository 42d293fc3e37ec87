package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeeklyGoalHolidayDiscount(t *testing.T) {
	// Week of 2025-01-06; New Year falls the week before.
	week := day(2025, 1, 6)

	tests := []struct {
		name     string
		holidays []time.Time
		want     int
	}{
		{"no holidays", nil, 40},
		{"one holiday in week", []time.Time{day(2025, 1, 8)}, 32},
		{"two holidays in week", []time.Time{day(2025, 1, 8), day(2025, 1, 10)}, 24},
		{"holiday outside week ignored", []time.Time{day(2025, 1, 13)}, 40},
		{"holiday on week start counts", []time.Time{day(2025, 1, 6)}, 32},
		{"holiday on last day of window counts", []time.Time{day(2025, 1, 12)}, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewGoalPolicy(8, 40, tt.holidays)
			assert.Equal(t, tt.want, policy.WeeklyGoalFor(week))
		})
	}
}

func TestWeeklyGoalDeterministic(t *testing.T) {
	policy := NewGoalPolicy(8, 40, []time.Time{day(2025, 5, 1)})
	week := day(2025, 4, 28)

	first := policy.WeeklyGoalFor(week)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, policy.WeeklyGoalFor(week))
	}

	// One holiday in the window: exactly one daily goal below the base.
	base := NewGoalPolicy(8, 40, nil)
	assert.Equal(t, base.WeeklyGoalFor(week)-8, first)
}

func TestWeeklyGoalUnclampedWhenWeekIsAllHolidays(t *testing.T) {
	week := day(2025, 1, 6)
	var holidays []time.Time
	for i := 0; i < 7; i++ {
		holidays = append(holidays, week.AddDate(0, 0, i))
	}

	policy := NewGoalPolicy(8, 40, holidays)
	// 40 - 7*8 = -16: goals can go negative, by policy.
	assert.Equal(t, -16, policy.WeeklyGoalFor(week))
}

func TestHolidayTimeOfDayIgnored(t *testing.T) {
	noon := time.Date(2025, 9, 7, 12, 30, 0, 0, time.UTC)
	policy := NewGoalPolicy(8, 40, []time.Time{noon})

	assert.True(t, policy.IsHoliday(day(2025, 9, 7)))
	assert.Equal(t, 32, policy.WeeklyGoalFor(day(2025, 9, 1)))
}
