package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/shared/testutil"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

func TestTrendInsufficientData(t *testing.T) {
	summaries := testutil.Series("Alice", 40, 35, 38, 41)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.Error(t, err)

	var insufficient *apperrors.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Have)
	assert.Equal(t, 4, insufficient.Want)

	require.NotNil(t, result)
	assert.Equal(t, domain.TrendStatusInsufficient, result.Status)
	// No slope is ever computed for an insufficient series
	assert.Zero(t, result.Slope)
	assert.Empty(t, result.Window)
}

func TestTrendExactWindowBoundary(t *testing.T) {
	// Exactly W points: enough.
	summaries := testutil.Series("Alice", 40, 35, 38, 41, 44)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, domain.TrendStatusOK, result.Status)
}

func TestTrendPerfectLine(t *testing.T) {
	// y = 3x + 35 over the window
	summaries := testutil.Series("Alice", 40, 35, 38, 41, 44)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.Slope, 1e-9)
	assert.InDelta(t, 35.0, result.Intercept, 1e-9)
	assert.Equal(t, domain.TrendRising, result.Direction)
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)

	// Projection is one step past the window
	assert.InDelta(t, 47.0, result.Projection, 1e-9)
	assert.Equal(t, testutil.Week(3).AddDate(0, 0, 7), result.ProjectionDate)

	// Window points plus the projection point
	require.Len(t, result.Window, 5)
	assert.Equal(t, testutil.Week(0), result.Window[0].WeekStart)
	assert.InDelta(t, 47.0, result.Window[4].Value, 1e-9)
}

func TestTrendUsesTrailingWindowOnly(t *testing.T) {
	// Early junk weeks must not affect the fit over the last 4.
	summaries := testutil.Series("Alice", 40, 100, 2, 90, 35, 38, 41, 44)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, 3.0, result.Slope, 1e-9)
}

func TestTrendDirectionThresholds(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		want   domain.TrendDirection
	}{
		{"rising", []float64{10, 15, 20, 25}, domain.TrendRising},
		{"falling", []float64{25, 20, 15, 10}, domain.TrendFalling},
		{"flat is stable", []float64{20, 20, 20, 20}, domain.TrendStable},
		{"small positive slope is stable", []float64{20, 20.2, 20.4, 20.6}, domain.TrendStable},
		{"small negative slope is stable", []float64{20, 19.8, 19.6, 19.4}, domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := testutil.Series("Alice", 40, tt.totals...)
			result, err := Trend(summaries, "Alice", DefaultThresholds())
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Direction)
		})
	}
}

func TestTrendRSquaredRange(t *testing.T) {
	// Noisy series: fit is imperfect but R² stays within [0,1].
	summaries := testutil.Series("Alice", 40, 30, 45, 28, 50)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.RSquared, 0.0)
	assert.LessOrEqual(t, result.RSquared, 1.0)
	assert.Less(t, result.RSquared, 1.0)
}

func TestTrendFlatSeriesRSquared(t *testing.T) {
	summaries := testutil.Series("Alice", 40, 20, 20, 20, 20)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)
	// Zero variance: the flat line explains everything.
	assert.Equal(t, 1.0, result.RSquared)
}

func TestTrendCustomWindow(t *testing.T) {
	summaries := testutil.Series("Alice", 40, 10, 20, 30, 40, 50, 60)

	th := DefaultThresholds()
	th.TrendWindow = 6
	result, err := Trend(summaries, "Alice", th)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, result.Slope, 1e-9)
	assert.InDelta(t, 70.0, result.Projection, 1e-9)
}

func TestTrendIgnoresOtherTechnicians(t *testing.T) {
	summaries := append(
		testutil.Series("Alice", 40, 35, 38, 41, 44),
		testutil.Series("Bob", 40, 1, 2, 3, 4)...,
	)

	result, err := Trend(summaries, "Alice", DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, 3.0, result.Slope, 1e-9)
}

func TestFitLineZeroDenominator(t *testing.T) {
	slope, intercept := fitLine([]float64{42})
	assert.Zero(t, slope)
	assert.Equal(t, 42.0, intercept)
}
