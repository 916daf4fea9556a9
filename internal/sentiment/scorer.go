// Package sentiment scores free text with the VADER lexicon.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"insight/internal/domain"
)

// Label thresholds on the compound score.
const (
	positiveMin = 0.05
	negativeMax = -0.05
)

// Scorer wraps a VADER analyzer. The lexicon handles negation and
// intensifiers and yields a compound score in [-1,1].
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores a single text. Empty or whitespace-only input returns the
// fixed neutral result without consulting the lexicon.
func (s *Scorer) Analyze(text string) domain.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentResult{
			Neutral: 1,
			Label:   domain.SentimentNeutral,
		}
	}
	scores := s.analyzer.PolarityScores(text)
	label, confidence := labelFor(scores.Compound, scores.Neutral)
	return domain.SentimentResult{
		Compound:   scores.Compound,
		Positive:   scores.Positive,
		Neutral:    scores.Neutral,
		Negative:   scores.Negative,
		Label:      label,
		Confidence: confidence,
	}
}

// labelFor applies the fixed thresholds: compound >= 0.05 is positive,
// compound <= -0.05 is negative, anything between is neutral with the
// neutral proportion as confidence.
func labelFor(compound, neutral float64) (domain.SentimentLabel, float64) {
	switch {
	case compound >= positiveMin:
		return domain.SentimentPositive, compound
	case compound <= negativeMax:
		return domain.SentimentNegative, math.Abs(compound)
	default:
		return domain.SentimentNeutral, neutral
	}
}
