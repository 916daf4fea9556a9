// Package vectorizer implements a TF-IDF term-weighting vectorizer with
// n-gram spans, document-frequency filtering and a feature cap.
//
// A vectorizer is fitted over one corpus and never updated incrementally;
// every pipeline run builds a fresh instance so the vocabulary stays
// internally consistent within the run.
package vectorizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned by Fit when the corpus yields no terms that
// survive tokenization and document-frequency filtering.
var ErrEmptyVocabulary = errors.New("no usable vocabulary in corpus")

// Options configures a Vectorizer. Zero values mean: unigrams only, no
// minimum document frequency, no feature cap, no stopword removal.
type Options struct {
	MaxFeatures int
	NgramMin    int
	NgramMax    int
	MinDocFreq  int
	Stopwords   map[string]struct{}
}

// Vectorizer builds a vocabulary from a corpus and computes smoothed-IDF
// weighted, L2-normalized term vectors.
type Vectorizer struct {
	opts         Options
	vocabulary   map[string]int
	terms        []string
	idf          []float64
	meanWeights  []float64
	fitted       bool
	tokenPattern *regexp.Regexp
}

func New(opts Options) *Vectorizer {
	if opts.NgramMin <= 0 {
		opts.NgramMin = 1
	}
	if opts.NgramMax < opts.NgramMin {
		opts.NgramMax = opts.NgramMin
	}
	return &Vectorizer{
		opts:         opts,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

// Fit builds the vocabulary and IDF values from the provided corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyVocabulary
	}
	df := make(map[string]int)
	docTerms := make([][]string, len(corpus))
	for i, text := range corpus {
		terms := v.ngrams(v.tokenize(text))
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	terms := make([]string, 0, len(df))
	for term, n := range df {
		if v.opts.MinDocFreq > 1 && n < v.opts.MinDocFreq {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	sort.Strings(terms)

	nDocs := float64(len(corpus))
	idfFor := func(term string) float64 {
		// Smoothed IDF
		return math.Log((1+nDocs)/(1+float64(df[term]))) + 1.0
	}

	if v.opts.MaxFeatures > 0 && len(terms) > v.opts.MaxFeatures {
		terms = v.selectTopTerms(terms, docTerms, idfFor)
	}

	v.vocabulary = make(map[string]int, len(terms))
	v.terms = terms
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = idfFor(term)
	}
	v.fitted = true

	v.meanWeights = make([]float64, len(terms))
	for _, terms := range docTerms {
		vec := v.transformTerms(terms)
		for i, w := range vec {
			v.meanWeights[i] += w
		}
	}
	for i := range v.meanWeights {
		v.meanWeights[i] /= nDocs
	}
	return nil
}

// selectTopTerms keeps the MaxFeatures terms with the highest total TF-IDF
// mass over the corpus, ties broken on the term itself.
func (v *Vectorizer) selectTopTerms(terms []string, docTerms [][]string, idfFor func(string) float64) []string {
	keep := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		keep[t] = struct{}{}
	}
	mass := make(map[string]float64, len(terms))
	for _, doc := range docTerms {
		total := 0
		counts := make(map[string]int)
		for _, t := range doc {
			if _, ok := keep[t]; !ok {
				continue
			}
			counts[t]++
			total++
		}
		if total == 0 {
			continue
		}
		for t, c := range counts {
			mass[t] += float64(c) / float64(total) * idfFor(t)
		}
	}
	sorted := append([]string(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool {
		if mass[sorted[i]] != mass[sorted[j]] {
			return mass[sorted[i]] > mass[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})
	selected := sorted[:v.opts.MaxFeatures]
	sort.Strings(selected)
	return selected
}

// Dimension returns the number of features in the fitted vocabulary.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// FeatureNames returns the fitted vocabulary in index order.
func (v *Vectorizer) FeatureNames() []string { return v.terms }

// MeanWeights returns the per-feature mean TF-IDF weight over the fitted
// corpus.
func (v *Vectorizer) MeanWeights() []float64 { return v.meanWeights }

// Transform computes the weighted vector for the given text. Terms outside
// the fitted vocabulary are ignored.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.fitted {
		return nil, errors.New("vectorizer not fitted")
	}
	return v.transformTerms(v.ngrams(v.tokenize(text))), nil
}

func (v *Vectorizer) transformTerms(terms []string) []float64 {
	vec := make([]float64, len(v.terms))
	tf := make(map[int]int)
	total := 0
	for _, t := range terms {
		if idx, ok := v.vocabulary[t]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * v.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, w := range vec {
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := v.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := v.opts.Stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ngrams expands a token sequence into the configured word spans, joining
// multi-word terms with a single space.
func (v *Vectorizer) ngrams(tokens []string) []string {
	if v.opts.NgramMin == 1 && v.opts.NgramMax == 1 {
		return tokens
	}
	var out []string
	for n := v.opts.NgramMin; n <= v.opts.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// EnglishStopwords is the stopword set handed to subset-local vectorizers.
func EnglishStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "through",
		"during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "don", "should",
		"now", "i", "me", "my", "we", "our", "you", "your", "he", "she",
		"they", "them", "their", "what", "which", "who", "am", "have",
		"has", "had", "do", "does", "did", "no", "nor", "not",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
