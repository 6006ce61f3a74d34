// Package predict turns cohort statistics into an over/under forecast.
package predict

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/model"
)

// ErrDegenerateDistribution is returned when the combined spread is zero (or
// not finite), leaving the z-score undefined.
var ErrDegenerateDistribution = eris.New("predict: degenerate distribution")

// Forecast carries the full-precision intermediate values of a prediction.
type Forecast struct {
	HomeDeviation       float64
	AwayDeviation       float64
	CombinedSpread      float64
	PredictedTotalScore float64
	ZScore              float64
	ProbabilityUnder    float64
	ProbabilityOver     float64
}

// Compute runs the prediction without rounding.
//
// The head-to-head mean opening line is shifted by the average of each team's
// mean miss against its own opening lines; the current opening line is then
// standardized against the mean of the two teams' actual-score deviations.
func Compute(home, away, versus model.ComparisonStatistics, openingLine float64) (Forecast, error) {
	f := Forecast{
		HomeDeviation:  home.ScoreDifference.Mean,
		AwayDeviation:  away.ScoreDifference.Mean,
		CombinedSpread: (home.ActualScore.StandardDeviation + away.ActualScore.StandardDeviation) / 2,
	}
	f.PredictedTotalScore = versus.OddScore.Mean + (f.HomeDeviation+f.AwayDeviation)/2

	if f.CombinedSpread == 0 || !finite(f.CombinedSpread) {
		return Forecast{}, eris.Wrapf(ErrDegenerateDistribution, "predict: combined spread %v", f.CombinedSpread)
	}

	f.ZScore = (openingLine - f.PredictedTotalScore) / f.CombinedSpread
	if !finite(f.ZScore) {
		return Forecast{}, eris.Wrapf(ErrDegenerateDistribution, "predict: z-score %v", f.ZScore)
	}

	f.ProbabilityUnder = 100 * normalCDF(f.ZScore)
	f.ProbabilityOver = 100 - f.ProbabilityUnder
	return f, nil
}

// Predict computes the forecast and rounds it for presentation. The over
// probability is taken as the complement of the rounded under probability so
// the pair still sums to 100.
func Predict(home, away, versus model.ComparisonStatistics, openingLine float64) (model.PredictionResult, error) {
	f, err := Compute(home, away, versus, openingLine)
	if err != nil {
		return model.PredictionResult{}, err
	}

	under := round2(f.ProbabilityUnder)
	return model.PredictionResult{
		OpeningLine:         openingLine,
		PredictedTotalScore: round2(f.PredictedTotalScore),
		ProbabilityUnder:    under,
		ProbabilityOver:     round2(100 - under),
	}, nil
}

// Assess labels the predicted total relative to the opening line: below when
// more than 1% under it, above when more than 5% over it, near otherwise.
func Assess(predicted, openingLine float64) model.Assessment {
	switch {
	case predicted < openingLine*0.99:
		return model.AssessmentBelow
	case predicted > openingLine*1.05:
		return model.AssessmentAbove
	default:
		return model.AssessmentNear
	}
}

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
