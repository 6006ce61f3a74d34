package model

import "math"

// ComparisonEntry pairs a match's opening line with its actual total score.
type ComparisonEntry struct {
	MatchID         string   `json:"match_id"`
	OddScore        *float64 `json:"odd_score"`
	ActualScore     *float64 `json:"real_score"`
	ScoreDifference *float64 `json:"score_difference"`
}

// NewComparisonEntry builds an entry and derives the absolute difference. The
// difference stays nil unless both operands are present.
func NewComparisonEntry(matchID string, oddScore, actualScore *float64) ComparisonEntry {
	e := ComparisonEntry{
		MatchID:     matchID,
		OddScore:    oddScore,
		ActualScore: actualScore,
	}
	if oddScore != nil && actualScore != nil {
		e.ScoreDifference = Float64Ptr(math.Abs(*oddScore - *actualScore))
	}
	return e
}

// StatisticsResult is the mean and population standard deviation of a sample.
type StatisticsResult struct {
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"stdev"`
}

// ComparisonStatistics summarizes a cohort's comparison entries field by field.
type ComparisonStatistics struct {
	OddScore        StatisticsResult `json:"odd_score"`
	ActualScore     StatisticsResult `json:"real_score"`
	ScoreDifference StatisticsResult `json:"score_difference"`
}
