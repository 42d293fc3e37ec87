package dataprocessing

import (
	"time"
)

// GoalPolicy is the immutable goal configuration for one run. It is passed
// explicitly into aggregation so goal rules are testable per call and can
// vary between runs without touching package state.
type GoalPolicy struct {
	DailyGoal  int
	WeeklyGoal int
	holidays   map[time.Time]bool
}

// NewGoalPolicy builds a policy from the goal constants and the holiday
// calendar. Holiday times are normalized to midnight so date-only
// comparisons work regardless of source precision.
func NewGoalPolicy(dailyGoal, weeklyGoal int, holidays []time.Time) GoalPolicy {
	set := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		set[dateOnly(h)] = true
	}
	return GoalPolicy{
		DailyGoal:  dailyGoal,
		WeeklyGoal: weeklyGoal,
		holidays:   set,
	}
}

// WeeklyGoalFor computes the goal for the week beginning at weekStart:
// the base weekly goal minus one daily goal per holiday in the inclusive
// 7-day window. The result is not clamped at zero.
func (p GoalPolicy) WeeklyGoalFor(weekStart time.Time) int {
	return p.WeeklyGoal - p.HolidaysInWeek(weekStart)*p.DailyGoal
}

// HolidaysInWeek counts holiday dates in [weekStart, weekStart+6].
func (p GoalPolicy) HolidaysInWeek(weekStart time.Time) int {
	day := dateOnly(weekStart)
	count := 0
	for i := 0; i < 7; i++ {
		if p.holidays[day.AddDate(0, 0, i)] {
			count++
		}
	}
	return count
}

// IsHoliday reports whether the given date is on the holiday calendar.
func (p GoalPolicy) IsHoliday(d time.Time) bool {
	return p.holidays[dateOnly(d)]
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
