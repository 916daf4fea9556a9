package sentiment

import (
	"testing"

	"insight/internal/domain"
)

func TestAnalyzeEmptyText(t *testing.T) {
	s := NewScorer()
	for _, in := range []string{"", "   ", "\t\n"} {
		got := s.Analyze(in)
		want := domain.SentimentResult{Neutral: 1, Label: domain.SentimentNeutral}
		if got != want {
			t.Errorf("Analyze(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestAnalyzeLabels(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		name string
		in   string
		want domain.SentimentLabel
	}{
		{"positive", "I love this company, the benefits are excellent and amazing", domain.SentimentPositive},
		{"negative", "This is terrible, I hate the awful management", domain.SentimentNegative},
		{"neutral", "The office is on the third floor", domain.SentimentNeutral},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Analyze(tc.in)
			if got.Label != tc.want {
				t.Errorf("Analyze(%q).Label = %s, want %s (compound=%f)", tc.in, got.Label, tc.want, got.Compound)
			}
			if got.Compound < -1 || got.Compound > 1 {
				t.Errorf("compound %f out of range", got.Compound)
			}
		})
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name       string
		compound   float64
		neutral    float64
		wantLabel  domain.SentimentLabel
		wantConfid float64
	}{
		{"at positive threshold", 0.05, 0.2, domain.SentimentPositive, 0.05},
		{"above positive threshold", 0.7, 0.1, domain.SentimentPositive, 0.7},
		{"at negative threshold", -0.05, 0.2, domain.SentimentNegative, 0.05},
		{"below negative threshold", -0.6, 0.1, domain.SentimentNegative, 0.6},
		{"just under positive", 0.049, 0.8, domain.SentimentNeutral, 0.8},
		{"just over negative", -0.049, 0.9, domain.SentimentNeutral, 0.9},
		{"zero", 0, 1, domain.SentimentNeutral, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, confidence := labelFor(tc.compound, tc.neutral)
			if label != tc.wantLabel {
				t.Errorf("labelFor(%f, %f) label = %s, want %s", tc.compound, tc.neutral, label, tc.wantLabel)
			}
			if confidence != tc.wantConfid {
				t.Errorf("labelFor(%f, %f) confidence = %f, want %f", tc.compound, tc.neutral, confidence, tc.wantConfid)
			}
		})
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	s := NewScorer()
	const in = "The salary is great but the hours are way too long"
	first := s.Analyze(in)
	for i := 0; i < 5; i++ {
		if got := s.Analyze(in); got != first {
			t.Fatalf("run %d: Analyze = %+v, want %+v", i, got, first)
		}
	}
}
