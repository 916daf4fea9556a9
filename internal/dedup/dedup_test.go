package dedup

import (
	"reflect"
	"testing"

	"insight/internal/config"
)

func testDedupConfig() config.DedupConfig {
	return config.DedupConfig{
		CommonVocabularySize:    2,
		OverallKeywordCount:     3,
		SpecializationThreshold: 1.0,
		MinKeywords:             2,
	}
}

func keywordWords(out Output, category string) []string {
	words := make([]string, 0, len(out.Keywords[category]))
	for _, kw := range out.Keywords[category] {
		words = append(words, kw.Word)
	}
	return words
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func TestRefineSharedWordMovesToOverall(t *testing.T) {
	// "manager" scores highly in both categories, so it lands in the common
	// vocabulary and the overall set but in neither per-category list.
	lacking := map[string]map[string]float64{
		"Management & Leadership": {
			"manager":         0.5,
			"micromanagement": 0.3,
			"feedback":        0.2,
		},
		"Career Development": {
			"manager":   0.5,
			"promotion": 0.4,
			"training":  0.3,
		},
	}
	out := Refine(lacking, testDedupConfig())

	if len(out.Overall) == 0 || out.Overall[0].Word != "manager" {
		t.Fatalf("Overall = %v, want manager first", out.Overall)
	}
	for _, category := range []string{"Management & Leadership", "Career Development"} {
		if contains(keywordWords(out, category), "manager") {
			t.Errorf("%s keywords still contain manager: %v", category, out.Keywords[category])
		}
	}
	if !contains(keywordWords(out, "Career Development"), "training") {
		t.Errorf("Career Development lost its specific word: %v", out.Keywords["Career Development"])
	}
}

func TestRefineSpecializationRatio(t *testing.T) {
	// "communication" ties for the top aggregate score and becomes the one
	// common word; words exclusive to a category survive the ratio test.
	cfg := testDedupConfig()
	cfg.CommonVocabularySize = 1 // only the top aggregate word is common
	lacking := map[string]map[string]float64{
		"A": {"noise": 1.0, "communication": 0.9, "alpha": 0.1},
		"B": {"communication": 0.1, "beta": 0.4, "gamma": 0.3},
	}
	out := Refine(lacking, cfg)

	// aggregate: noise 1.0 (common), communication 1.0... both tie at 1.0,
	// alphabetical puts communication first, making it the common word.
	if !contains(keywordWords(out, "A"), "noise") {
		t.Errorf("A should keep its exclusive word: %v", out.Keywords["A"])
	}
	if contains(keywordWords(out, "B"), "communication") {
		t.Errorf("B kept a word it barely uses: %v", out.Keywords["B"])
	}
}

func TestRefineAmbiguousPositiveExcluded(t *testing.T) {
	cfg := testDedupConfig()
	cfg.CommonVocabularySize = 0
	lacking := map[string]map[string]float64{
		"Culture & Values": {
			"good":     0.9,
			"great":    0.8,
			"nice":     0.7,
			"positive": 0.6,
			"cliques":  0.2,
			"gossip":   0.1,
		},
	}
	out := Refine(lacking, cfg)

	for _, kw := range out.Overall {
		switch kw.Word {
		case "good", "great", "nice", "positive":
			t.Errorf("ambiguous word %q in overall set", kw.Word)
		}
	}
	words := keywordWords(out, "Culture & Values")
	for _, w := range []string{"good", "great", "nice", "positive"} {
		if contains(words, w) {
			t.Errorf("ambiguous word %q in category list %v", w, words)
		}
	}
	if !contains(words, "cliques") {
		t.Errorf("expected cliques in %v", words)
	}
}

func TestRefineFallbackWhenOverSpecialized(t *testing.T) {
	// Every word is shared equally across categories, so specialization
	// removes them all and the fallback restores the non-common ones.
	cfg := testDedupConfig()
	lacking := map[string]map[string]float64{
		"A": {"w1": 0.5, "w2": 0.4, "w3": 0.3, "w4": 0.2},
		"B": {"w1": 0.5, "w2": 0.4, "w3": 0.3, "w4": 0.2},
	}
	out := Refine(lacking, cfg)

	// common = {w1, w2}; the ratio 0.5 drops w3 and w4 too, leaving less
	// than MinKeywords, so the fallback keeps w3 and w4.
	for _, category := range []string{"A", "B"} {
		words := keywordWords(out, category)
		if len(words) == 0 {
			t.Fatalf("%s list empty after fallback", category)
		}
		if contains(words, "w1") || contains(words, "w2") {
			t.Errorf("%s fallback resurrected a common word: %v", category, words)
		}
	}
}

func TestRefineCapsAtMinKeywords(t *testing.T) {
	cfg := testDedupConfig()
	cfg.CommonVocabularySize = 0
	lacking := map[string]map[string]float64{
		"A": {"a": 0.9, "b": 0.8, "c": 0.7, "d": 0.6, "e": 0.5},
	}
	out := Refine(lacking, cfg)
	if got := len(out.Keywords["A"]); got != cfg.MinKeywords {
		t.Errorf("keyword count = %d, want %d", got, cfg.MinKeywords)
	}
	words := keywordWords(out, "A")
	if words[0] != "a" || words[1] != "b" {
		t.Errorf("cap should keep highest-scoring words, got %v", words)
	}
}

func TestRefineDeterministicAcrossRuns(t *testing.T) {
	// Overlapping words with near-tied scores; aggregation order must not
	// change the outcome.
	lacking := map[string]map[string]float64{
		"A": {"w1": 0.1, "w2": 0.3, "shared": 0.2},
		"B": {"w3": 0.3, "shared": 0.1, "w4": 0.2},
		"C": {"w1": 0.2, "w4": 0.1, "shared": 0.3},
	}
	first := Refine(lacking, testDedupConfig())
	for i := 0; i < 10; i++ {
		if got := Refine(lacking, testDedupConfig()); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Refine = %+v, want %+v", i, got, first)
		}
	}
}

func TestRefineEmptyInput(t *testing.T) {
	out := Refine(nil, testDedupConfig())
	if len(out.Overall) != 0 {
		t.Errorf("Overall = %v, want empty", out.Overall)
	}
	if len(out.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty", out.Keywords)
	}
}
