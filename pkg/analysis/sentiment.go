package analysis

import (
	"context"
	"fmt"
	"math"
)

// Sentiment is the three-way overall polarity label
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Fixed classification thresholds on the compound score
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Classify maps a compound score to a Sentiment
func Classify(score float64) Sentiment {
	switch {
	case score >= PositiveThreshold:
		return Positive
	case score <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// ClassifyText scores text with s and classifies the result. A scorer
// failure or an out of range score is a ScoreError.
func ClassifyText(ctx context.Context, s Scorer, text string) (Sentiment, float64, error) {
	score, err := s.Score(ctx, text)
	if err != nil {
		return "", 0, ScoreError("score", err)
	}
	if math.IsNaN(score) || score < -1 || score > 1 {
		return "", 0, ScoreError("score", fmt.Errorf("compound score %v outside [-1, 1]", score))
	}
	return Classify(score), score, nil
}
