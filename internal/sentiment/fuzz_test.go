package sentiment

import (
	"testing"

	"insight/internal/domain"
)

func FuzzAnalyze(f *testing.F) {
	f.Add("great benefits and salary")
	f.Add("terrible management, toxic culture")
	f.Add("")
	f.Add("   ")
	f.Add("not bad at all!!! :) 12345")
	s := NewScorer()
	f.Fuzz(func(t *testing.T, text string) {
		got := s.Analyze(text)
		if got.Compound < -1 || got.Compound > 1 {
			t.Errorf("compound %f out of [-1,1] for %q", got.Compound, text)
		}
		switch got.Label {
		case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		default:
			t.Errorf("unexpected label %q for %q", got.Label, text)
		}
		if got.Confidence < 0 {
			t.Errorf("negative confidence %f for %q", got.Confidence, text)
		}
	})
}
