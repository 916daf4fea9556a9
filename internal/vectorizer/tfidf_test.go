package vectorizer

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFitEmptyCorpus(t *testing.T) {
	v := New(Options{})
	if err := v.Fit(nil); !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("Fit(nil) = %v, want ErrEmptyVocabulary", err)
	}
}

func TestFitAllFiltered(t *testing.T) {
	v := New(Options{Stopwords: EnglishStopwords()})
	err := v.Fit([]string{"the and of", "is are was"})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("Fit = %v, want ErrEmptyVocabulary", err)
	}
}

func TestMinDocFreqFiltering(t *testing.T) {
	v := New(Options{MinDocFreq: 2})
	corpus := []string{
		"salary bonus",
		"salary overtime",
		"salary unique",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// Only "salary" appears in two or more documents.
	if got := v.FeatureNames(); !reflect.DeepEqual(got, []string{"salary"}) {
		t.Errorf("FeatureNames = %v, want [salary]", got)
	}
}

func TestBigrams(t *testing.T) {
	v := New(Options{NgramMin: 1, NgramMax: 2})
	if err := v.Fit([]string{"career growth path"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	want := []string{"career", "career growth", "growth", "growth path", "path"}
	if got := v.FeatureNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FeatureNames = %v, want %v", got, want)
	}
}

func TestMaxFeaturesCap(t *testing.T) {
	v := New(Options{MaxFeatures: 3})
	corpus := []string{
		"alpha alpha alpha beta",
		"alpha beta gamma",
		"delta epsilon zeta",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if v.Dimension() != 3 {
		t.Fatalf("Dimension = %d, want 3", v.Dimension())
	}
	names := v.FeatureNames()
	found := false
	for _, n := range names {
		if n == "alpha" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected most frequent term alpha in %v", names)
	}
	// Vocabulary stays sorted after the cap.
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("FeatureNames not sorted: %v", names)
		}
	}
}

func TestTransformL2Normalized(t *testing.T) {
	v := New(Options{})
	corpus := []string{
		"salary bonus raise",
		"salary overtime pay",
		"culture team value",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vec, err := v.Transform("salary bonus bonus raise")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	norm := 0.0
	for _, w := range vec {
		norm += w * w
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("vector norm = %f, want 1", math.Sqrt(norm))
	}
}

func TestTransformUnknownTermsIgnored(t *testing.T) {
	v := New(Options{})
	if err := v.Fit([]string{"salary bonus"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vec, err := v.Transform("completely unknown words")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for i, w := range vec {
		if w != 0 {
			t.Errorf("vec[%d] = %f, want 0 for out-of-vocabulary text", i, w)
		}
	}
}

func TestTransformBeforeFit(t *testing.T) {
	v := New(Options{})
	if _, err := v.Transform("anything"); err == nil {
		t.Fatal("Transform before Fit should fail")
	}
}

func TestMeanWeights(t *testing.T) {
	v := New(Options{})
	corpus := []string{
		"salary salary salary",
		"culture",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	means := v.MeanWeights()
	if len(means) != v.Dimension() {
		t.Fatalf("MeanWeights length = %d, want %d", len(means), v.Dimension())
	}
	// Each document is single-term, so each normalized vector is a unit
	// basis vector and every mean weight is docCount/corpusSize.
	for i, m := range means {
		if math.Abs(m-0.5) > 1e-9 {
			t.Errorf("MeanWeights[%d] = %f, want 0.5", i, m)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	corpus := []string{
		"salary bonus raise overtime",
		"bonus culture value team",
		"raise team manager support",
	}
	a := New(Options{NgramMax: 2, MaxFeatures: 8})
	b := New(Options{NgramMax: 2, MaxFeatures: 8})
	if err := a.Fit(corpus); err != nil {
		t.Fatalf("Fit a: %v", err)
	}
	if err := b.Fit(corpus); err != nil {
		t.Fatalf("Fit b: %v", err)
	}
	if !reflect.DeepEqual(a.FeatureNames(), b.FeatureNames()) {
		t.Errorf("vocabularies differ: %v vs %v", a.FeatureNames(), b.FeatureNames())
	}
	if !reflect.DeepEqual(a.MeanWeights(), b.MeanWeights()) {
		t.Errorf("mean weights differ")
	}
}
