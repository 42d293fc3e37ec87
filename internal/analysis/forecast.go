package analysis

import (
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// Forecast estimates next week's productivity for a technician, either as
// a moving average of the trailing window or as a regression over the full
// observed series. The estimate is compared against the technician's most
// recent weekly goal.
func Forecast(summaries []domain.WeeklySummary, technician string, model domain.ForecastModel, th Thresholds) (*domain.ForecastResult, error) {
	series := SeriesFor(summaries, technician)
	window := th.ForecastWindow
	if window < 2 {
		window = 2
	}
	if len(series) < window {
		return &domain.ForecastResult{
				Technician: technician,
				Status:     domain.TrendStatusInsufficient,
				Model:      model,
			}, errors.NewInsufficientDataError(technician, len(series), window)
	}

	var forecast float64
	switch model {
	case domain.ForecastRegression:
		ys := make([]float64, len(series))
		for i, s := range series {
			ys[i] = s.ProductivityTotal
		}
		slope, intercept := fitLine(ys)
		forecast = slope*float64(len(series)) + intercept
	default:
		model = domain.ForecastMovingAverage
		var sum float64
		for _, s := range series[len(series)-window:] {
			sum += s.ProductivityTotal
		}
		forecast = sum / float64(window)
	}

	lastGoal := float64(series[len(series)-1].WeeklyGoal)
	return &domain.ForecastResult{
		Technician: technician,
		Status:     domain.TrendStatusOK,
		Model:      model,
		Forecast:   forecast,
		LastGoal:   lastGoal,
		Delta:      forecast - lastGoal,
	}, nil
}
