package model

// PredictionResult is the final forecast for one match. Values are rounded to
// two decimals for presentation.
type PredictionResult struct {
	OpeningLine         float64 `json:"opening_line"`
	PredictedTotalScore float64 `json:"predicted_total_score"`
	ProbabilityUnder    float64 `json:"probability_under"`
	ProbabilityOver     float64 `json:"probability_over"`
}

// Assessment is a coarse label placing the predicted total relative to the
// opening line.
type Assessment string

const (
	AssessmentBelow Assessment = "below"
	AssessmentNear  Assessment = "near"
	AssessmentAbove Assessment = "above"
)
