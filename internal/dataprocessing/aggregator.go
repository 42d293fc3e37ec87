package dataprocessing

import (
	"sort"
	"time"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// weekKey groups records by technician and ISO week.
type weekKey struct {
	technician string
	weekStart  time.Time
}

// WeekStart returns the Monday on or before the given date, at midnight.
// Monday is weekday 0 (ISO convention).
func WeekStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Aggregate buckets canonical rows into technician×week groups and builds
// one WeeklySummary per group. WeeklyGoal and GoalMet are filled from the
// goal policy so the derived-field invariant holds at construction. Output
// order is unspecified; callers sort before relying on chronology.
func Aggregate(rows []domain.CanonicalRow, policy GoalPolicy) []domain.WeeklySummary {
	groups := make(map[weekKey]*domain.WeeklySummary)
	regionVotes := make(map[weekKey]map[string]int)

	for _, row := range rows {
		key := weekKey{technician: row.Technician, weekStart: WeekStart(row.ClosingDate)}
		summary, ok := groups[key]
		if !ok {
			summary = &domain.WeeklySummary{
				Technician: row.Technician,
				WeekStart:  key.weekStart,
			}
			groups[key] = summary
			regionVotes[key] = make(map[string]int)
		}
		summary.ProductivityTotal += row.Productivity
		summary.RecordCount++
		if row.Region != "" {
			regionVotes[key][row.Region]++
		}
	}

	summaries := make([]domain.WeeklySummary, 0, len(groups))
	for key, summary := range groups {
		summary.WeeklyGoal = policy.WeeklyGoalFor(key.weekStart)
		summary.GoalMet = summary.ProductivityTotal >= float64(summary.WeeklyGoal)
		summary.Region = dominantRegion(regionVotes[key])
		summaries = append(summaries, *summary)
	}
	return summaries
}

// dominantRegion picks the region a technician worked most during the
// week. Ties break lexicographically so the result is deterministic.
func dominantRegion(votes map[string]int) string {
	best := ""
	bestCount := 0
	for region, count := range votes {
		if count > bestCount || (count == bestCount && region < best) {
			best = region
			bestCount = count
		}
	}
	return best
}

// SortSummaries orders summaries by technician then week start, the order
// expected by the analysis layer.
func SortSummaries(summaries []domain.WeeklySummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Technician != summaries[j].Technician {
			return summaries[i].Technician < summaries[j].Technician
		}
		return summaries[i].WeekStart.Before(summaries[j].WeekStart)
	})
}
