package domain

import "context"

// RecordSource supplies the feedback records the pipeline trains on.
// Implementations return only records marked complete.
type RecordSource interface {
	ListComplete(ctx context.Context) ([]FeedbackRecord, error)
}

// Normalizer reduces free text to cleaned, lemmatized tokens.
type Normalizer interface {
	Normalize(text string) []string
	NormalizeJoined(text string) string
}

// SentimentScorer computes lexicon-based sentiment for a single text.
type SentimentScorer interface {
	Analyze(text string) SentimentResult
}
