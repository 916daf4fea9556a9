// Package dedup removes generically important words from category-specific
// keyword lists.
//
// Words that predict low scores in every category are generic complaints,
// not category-specific signals: they are aggregated into a common lacking
// vocabulary and an "overall" keyword set, and excluded from each category's
// final list unless the word is at least as important there as it is
// overall.
package dedup

import (
	"sort"

	"insight/internal/config"
	"insight/internal/domain"
)

// ambiguousPositive are praise words that leak into lacking buckets through
// negation ("not good") and never describe a concrete complaint.
var ambiguousPositive = map[string]struct{}{
	"good": {}, "nice": {}, "great": {}, "positive": {},
}

// Output is the refined view over all lacking buckets.
type Output struct {
	// Keywords maps category to its final deduplicated keyword list,
	// descending by score, capped at MinKeywords.
	Keywords map[string][]domain.KeywordScore
	// Overall is the top aggregate word set across all lacking buckets.
	Overall domain.OverallKeywordSet
}

// Refine takes the full per-category lacking importance maps (word -> score)
// and produces specialized per-category lists plus the overall keyword set.
func Refine(lacking map[string]map[string]float64, cfg config.DedupConfig) Output {
	categories := make([]string, 0, len(lacking))
	for category := range lacking {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	// Accumulate in sorted category order so near-tied aggregate scores are
	// bit-identical across runs.
	aggregate := make(map[string]float64)
	for _, category := range categories {
		for word, score := range lacking[category] {
			if _, ambiguous := ambiguousPositive[word]; ambiguous {
				continue
			}
			aggregate[word] += score
		}
	}
	ranked := rank(aggregate)

	common := make(map[string]struct{}, cfg.CommonVocabularySize)
	for i, kw := range ranked {
		if i >= cfg.CommonVocabularySize {
			break
		}
		common[kw.Word] = struct{}{}
	}

	overall := domain.OverallKeywordSet{}
	for i, kw := range ranked {
		if i >= cfg.OverallKeywordCount {
			break
		}
		overall = append(overall, kw)
	}

	out := Output{Keywords: make(map[string][]domain.KeywordScore, len(lacking)), Overall: overall}
	for category, words := range lacking {
		specialized := specialize(words, aggregate, common, cfg.SpecializationThreshold)
		if len(specialized) < cfg.MinKeywords {
			// Fall back to the category's unfiltered top words so a
			// non-empty list exists whenever lacking data exists.
			specialized = fallback(words, common)
		}
		if len(specialized) > cfg.MinKeywords {
			specialized = specialized[:cfg.MinKeywords]
		}
		out.Keywords[category] = specialized
	}
	return out
}

// specialize keeps words whose in-category score is at least the
// specialization threshold times their aggregate score, or which never
// appear outside this category. Common and ambiguous words are always
// excluded.
func specialize(words map[string]float64, aggregate map[string]float64, common map[string]struct{}, threshold float64) []domain.KeywordScore {
	kept := make(map[string]float64)
	for word, score := range words {
		if excluded(word, common) {
			continue
		}
		overall := aggregate[word]
		if overall == 0 || score/overall >= threshold {
			kept[word] = score
		}
	}
	return rank(kept)
}

func fallback(words map[string]float64, common map[string]struct{}) []domain.KeywordScore {
	kept := make(map[string]float64)
	for word, score := range words {
		if excluded(word, common) {
			continue
		}
		kept[word] = score
	}
	return rank(kept)
}

func excluded(word string, common map[string]struct{}) bool {
	if _, ambiguous := ambiguousPositive[word]; ambiguous {
		return true
	}
	_, isCommon := common[word]
	return isCommon
}

func rank(scores map[string]float64) []domain.KeywordScore {
	out := make([]domain.KeywordScore, 0, len(scores))
	for word, score := range scores {
		out = append(out, domain.KeywordScore{Word: word, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	return out
}
