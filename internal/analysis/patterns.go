package analysis

import (
	"fmt"
	"sort"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// DetectAlerts runs every pattern detector over the weekly summaries and
// returns the combined alert list. Technicians are scanned in sorted-name
// order so output is deterministic; within one technician the detectors
// run in a fixed order. Pure function: no mutation of the input.
func DetectAlerts(summaries []domain.WeeklySummary, th Thresholds) []domain.Alert {
	var alerts []domain.Alert

	for _, technician := range technicianNames(summaries) {
		series := SeriesFor(summaries, technician)

		if alert := detectDecline(technician, series); alert != nil {
			alerts = append(alerts, *alert)
		}
		if alert := detectOscillation(technician, series, th); alert != nil {
			alerts = append(alerts, *alert)
		}
		if alert := detectGrowth(technician, series); alert != nil {
			alerts = append(alerts, *alert)
		}
		if alert := detectNeverMet(technician, series); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	alerts = append(alerts, detectRegionAlerts(summaries, th)...)
	return alerts
}

// detectDecline flags a was-meeting-now-failing transition: goal met three
// weeks ago, then missed twice in a row.
func detectDecline(technician string, series []domain.WeeklySummary) *domain.Alert {
	n := len(series)
	if n < 3 {
		return nil
	}
	if series[n-3].GoalMet && !series[n-2].GoalMet && !series[n-1].GoalMet {
		return &domain.Alert{
			Kind:     domain.AlertDecline,
			Subject:  technician,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("%s met the goal three weeks ago but missed it the last two weeks", technician),
		}
	}
	return nil
}

// detectOscillation flags series whose goal outcome keeps flipping:
// more than the threshold number of transitions over a series long enough
// to mean something.
func detectOscillation(technician string, series []domain.WeeklySummary, th Thresholds) *domain.Alert {
	if len(series) < th.OscillationMinWeeks {
		return nil
	}
	transitions := 0
	for i := 1; i < len(series); i++ {
		if series[i].GoalMet != series[i-1].GoalMet {
			transitions++
		}
	}
	if transitions > th.OscillationTransitions {
		return &domain.Alert{
			Kind:     domain.AlertOscillation,
			Subject:  technician,
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("%s alternated between meeting and missing the goal %d times over %d weeks", technician, transitions, len(series)),
		}
	}
	return nil
}

// detectGrowth flags three consecutive met weeks at the end of a series of
// at least four points, reporting the productivity delta across the
// trailing four observations.
func detectGrowth(technician string, series []domain.WeeklySummary) *domain.Alert {
	n := len(series)
	if n < 4 {
		return nil
	}
	if series[n-3].GoalMet && series[n-2].GoalMet && series[n-1].GoalMet {
		delta := series[n-1].ProductivityTotal - series[n-4].ProductivityTotal
		return &domain.Alert{
			Kind:     domain.AlertGrowth,
			Subject:  technician,
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("%s met the goal three weeks running; productivity moved %+.1f over the last four weeks", technician, delta),
		}
	}
	return nil
}

// detectNeverMet flags technicians whose entire observed series has no met
// week at all.
func detectNeverMet(technician string, series []domain.WeeklySummary) *domain.Alert {
	if len(series) == 0 {
		return nil
	}
	for _, s := range series {
		if s.GoalMet {
			return nil
		}
	}
	return &domain.Alert{
		Kind:     domain.AlertNeverMetGoal,
		Subject:  technician,
		Severity: domain.SeverityMedium,
		Message:  fmt.Sprintf("%s has not met the weekly goal in any of %d observed weeks", technician, len(series)),
	}
}

// detectRegionAlerts flags regions whose mean goal-attainment rate falls
// below the failure threshold. Runs only when region data was mapped.
func detectRegionAlerts(summaries []domain.WeeklySummary, th Thresholds) []domain.Alert {
	met := make(map[string]int)
	total := make(map[string]int)
	for _, s := range summaries {
		if s.Region == "" {
			continue
		}
		total[s.Region]++
		if s.GoalMet {
			met[s.Region]++
		}
	}

	regions := make([]string, 0, len(total))
	for region := range total {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	var alerts []domain.Alert
	for _, region := range regions {
		rate := float64(met[region]) / float64(total[region])
		if rate < th.RegionFailureRate {
			alerts = append(alerts, domain.Alert{
				Kind:     domain.AlertRegion,
				Subject:  region,
				Severity: domain.SeverityMedium,
				Message:  fmt.Sprintf("region %s has a %.0f%% goal-attainment rate across %d technician-weeks", region, rate*100, total[region]),
			})
		}
	}
	return alerts
}

// Streaks computes the longest and current consecutive goal-met and
// goal-missed runs for every technician.
func Streaks(summaries []domain.WeeklySummary) []domain.StreakStats {
	var stats []domain.StreakStats
	for _, technician := range technicianNames(summaries) {
		series := SeriesFor(summaries, technician)
		s := domain.StreakStats{Technician: technician}

		posRun, negRun := 0, 0
		for _, week := range series {
			if week.GoalMet {
				posRun++
				negRun = 0
			} else {
				negRun++
				posRun = 0
			}
			if posRun > s.LongestMet {
				s.LongestMet = posRun
			}
			if negRun > s.LongestMissed {
				s.LongestMissed = negRun
			}
		}
		s.CurrentMet = posRun
		s.CurrentMissed = negRun
		stats = append(stats, s)
	}
	return stats
}

func technicianNames(summaries []domain.WeeklySummary) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range summaries {
		if !seen[s.Technician] {
			seen[s.Technician] = true
			names = append(names, s.Technician)
		}
	}
	sort.Strings(names)
	return names
}
