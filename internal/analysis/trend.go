// Package analysis contains the pure computations over weekly summaries:
// trailing-window trend fits, next-week forecasts, and pattern detection.
// Everything here operates on immutable inputs and holds no state, so the
// functions are safe to call concurrently.
package analysis

import (
	"sort"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// Thresholds carries the policy constants for trend classification and
// pattern detection. Values come from config, not from fit quality.
type Thresholds struct {
	TrendWindow            int
	SlopeRising            float64
	SlopeFalling           float64
	ForecastWindow         int
	OscillationMinWeeks    int
	OscillationTransitions int
	RegionFailureRate      float64
}

// DefaultThresholds mirrors the config defaults for direct library use.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TrendWindow:            4,
		SlopeRising:            0.5,
		SlopeFalling:           -0.5,
		ForecastWindow:         3,
		OscillationMinWeeks:    4,
		OscillationTransitions: 2,
		RegionFailureRate:      0.3,
	}
}

// SeriesFor returns the given technician's summaries sorted ascending by
// week start. The input slice is not modified.
func SeriesFor(summaries []domain.WeeklySummary, technician string) []domain.WeeklySummary {
	var series []domain.WeeklySummary
	for _, s := range summaries {
		if s.Technician == technician {
			series = append(series, s)
		}
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].WeekStart.Before(series[j].WeekStart)
	})
	return series
}

// Trend fits an ordinary least-squares line over the technician's trailing
// window and projects one step past it. The x axis is the point's position
// inside the window (0..W-1), so the slope reads as productivity change
// per consecutive observed week; gaps in the series are invisible to it.
func Trend(summaries []domain.WeeklySummary, technician string, th Thresholds) (*domain.TrendResult, error) {
	series := SeriesFor(summaries, technician)
	window := th.TrendWindow
	if window < 2 {
		window = 2
	}
	if len(series) < window {
		return &domain.TrendResult{
				Technician: technician,
				Status:     domain.TrendStatusInsufficient,
			}, errors.NewInsufficientDataError(technician, len(series), window)
	}

	recent := series[len(series)-window:]
	ys := make([]float64, window)
	for i, s := range recent {
		ys[i] = s.ProductivityTotal
	}

	slope, intercept := fitLine(ys)
	r2 := rSquared(ys, slope, intercept)

	lastWeek := recent[window-1].WeekStart
	result := &domain.TrendResult{
		Technician:     technician,
		Status:         domain.TrendStatusOK,
		Direction:      classify(slope, th),
		Slope:          slope,
		Intercept:      intercept,
		RSquared:       r2,
		Projection:     slope*float64(window) + intercept,
		ProjectionDate: lastWeek.AddDate(0, 0, 7),
		Window:         make([]domain.TrendPoint, 0, window+1),
	}

	for i, s := range recent {
		result.Window = append(result.Window, domain.TrendPoint{
			WeekStart: s.WeekStart,
			Value:     s.ProductivityTotal,
			Fitted:    slope*float64(i) + intercept,
		})
	}
	result.Window = append(result.Window, domain.TrendPoint{
		WeekStart: result.ProjectionDate,
		Value:     result.Projection,
		Fitted:    result.Projection,
	})

	return result, nil
}

func classify(slope float64, th Thresholds) domain.TrendDirection {
	switch {
	case slope > th.SlopeRising:
		return domain.TrendRising
	case slope < th.SlopeFalling:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

// fitLine computes the least-squares slope and intercept for y over
// x = 0..n-1.
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// rSquared is the coefficient of determination of the fit. A flat series
// has zero total variance and reports 1: the line explains it perfectly.
func rSquared(ys []float64, slope, intercept float64) float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	var ssTot, ssRes float64
	for i, y := range ys {
		fitted := slope*float64(i) + intercept
		ssTot += (y - mean) * (y - mean)
		ssRes += (y - fitted) * (y - fitted)
	}
	if ssTot == 0 {
		return 1
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return r2
}
