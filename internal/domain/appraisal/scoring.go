package appraisal

import "math"

// ScoreSummary holds the derived fields computed from a score mapping. These
// are the only legitimate source of the persisted overall score and rating.
type ScoreSummary struct {
	Average    float64 `json:"average"`
	Percentage float64 `json:"percentage"`
	Rating     string  `json:"rating"`
}

// CalculateScores aggregates per-question scores into an average out of 10 and
// a percentage out of 100, both rounded to two decimal places. An empty mapping
// yields zeros rather than an error; the form always supplies the full question
// set, so this is a fallback, not a missing-data signal.
func CalculateScores(scores map[string]int) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{Average: 0, Percentage: 0, Rating: RatingForAverage(0)}
	}

	total := 0
	for _, score := range scores {
		total += score
	}

	count := float64(len(scores))
	average := round2(float64(total) / count)
	percentage := round2(float64(total) / (count * 10) * 100)

	return ScoreSummary{
		Average:    average,
		Percentage: percentage,
		Rating:     RatingForAverage(average),
	}
}

// RatingForAverage maps an average score to its qualitative band.
func RatingForAverage(average float64) string {
	switch {
	case average < 0 || average > 10:
		return RatingNA
	case average <= 2:
		return RatingPoor
	case average < 5:
		return RatingFair
	case average < 8:
		return RatingGood
	default:
		return RatingVeryGood
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
