// Package stats reduces comparison entries to descriptive statistics.
package stats

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/model"
)

// ErrEmptySample is returned when a statistic is requested over no values.
var ErrEmptySample = eris.New("stats: empty sample")

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// StandardDeviation returns the population standard deviation (divides by N).
// A single value has a deviation of exactly zero.
func StandardDeviation(values []float64) (float64, error) {
	switch len(values) {
	case 0:
		return 0, ErrEmptySample
	case 1:
		return 0, nil
	}

	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values))), nil
}

// Describe computes mean and standard deviation together.
func Describe(values []float64) (model.StatisticsResult, error) {
	mean, err := Mean(values)
	if err != nil {
		return model.StatisticsResult{}, err
	}
	sd, err := StandardDeviation(values)
	if err != nil {
		return model.StatisticsResult{}, err
	}
	return model.StatisticsResult{Mean: mean, StandardDeviation: sd}, nil
}

// ComputeComparisonStatistics describes the odd score, actual score and score
// difference of entries. Absent values are dropped per field; if any field is
// left with no values the whole computation fails with ErrEmptySample.
func ComputeComparisonStatistics(entries []model.ComparisonEntry) (model.ComparisonStatistics, error) {
	var odd, actual, diff []float64
	for _, e := range entries {
		if e.OddScore != nil {
			odd = append(odd, *e.OddScore)
		}
		if e.ActualScore != nil {
			actual = append(actual, *e.ActualScore)
		}
		if e.ScoreDifference != nil {
			diff = append(diff, *e.ScoreDifference)
		}
	}

	if len(odd) == 0 || len(actual) == 0 || len(diff) == 0 {
		return model.ComparisonStatistics{}, eris.Wrapf(ErrEmptySample,
			"stats: %d entries yield odd=%d actual=%d diff=%d values",
			len(entries), len(odd), len(actual), len(diff))
	}

	var (
		out model.ComparisonStatistics
		err error
	)
	if out.OddScore, err = Describe(odd); err != nil {
		return model.ComparisonStatistics{}, eris.Wrap(err, "stats: odd score")
	}
	if out.ActualScore, err = Describe(actual); err != nil {
		return model.ComparisonStatistics{}, eris.Wrap(err, "stats: actual score")
	}
	if out.ScoreDifference, err = Describe(diff); err != nil {
		return model.ComparisonStatistics{}, eris.Wrap(err, "stats: score difference")
	}
	return out, nil
}
