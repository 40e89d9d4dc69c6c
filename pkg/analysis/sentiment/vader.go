package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderScorer computes the VADER compound score locally
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.analyzer.PolarityScores(text).Compound, nil
}
