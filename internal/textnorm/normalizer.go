// Package textnorm reduces free survey text to cleaned, lemmatized tokens.
//
// The pipeline is: lowercase, strip everything except letters and spaces,
// split on whitespace, remove stopwords, lemmatize each surviving token.
// Normalization is pure and deterministic; empty input yields no tokens.
package textnorm

import (
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Normalizer implements the text cleanup applied before vectorization and
// sentiment recomputation.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
	stopwords  map[string]struct{}
}

// New creates a Normalizer backed by the English lemma dictionary.
func New() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &Normalizer{
		lemmatizer: lem,
		stopwords:  defaultStopwords(),
	}, nil
}

// Normalize returns the cleaned token sequence for text.
func (n *Normalizer) Normalize(text string) []string {
	cleaned := stripNonLetters(strings.ToLower(text))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, isStop := n.stopwords[tok]; isStop {
			continue
		}
		tokens = append(tokens, n.lemmatizer.Lemma(tok))
	}
	return tokens
}

// NormalizeJoined returns the normalized tokens space-joined, the form the
// vectorizer and sentiment recompute consume.
func (n *Normalizer) NormalizeJoined(text string) string {
	return strings.Join(n.Normalize(text), " ")
}

// stripNonLetters keeps ASCII letters and turns every other rune into a
// space, which also removes digits.
func stripNonLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
