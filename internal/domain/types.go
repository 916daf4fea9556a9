package domain

import "time"

// FeedbackRecord is one survey response with its structured per-category
// scores. Records are produced by the ingestion layer and are read-only here.
type FeedbackRecord struct {
	ID             string
	Text           string
	CategoryScores map[string]float64 // category name -> score in [1,5]
	SubmittedAt    time.Time
	Complete       bool
}

// SentimentLabel classifies a response by its compound valence.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentResult holds the lexicon scores for a single text.
// Positive, Neutral and Negative are proportions summing to 1.
type SentimentResult struct {
	Compound   float64
	Positive   float64
	Neutral    float64
	Negative   float64
	Label      SentimentLabel
	Confidence float64
}

// Polarity selects one of the two score buckets trained per category.
type Polarity string

const (
	PolarityStrength Polarity = "strength" // category score >= strength threshold
	PolarityLacking  Polarity = "lacking"  // category score < lacking threshold
)

// KeywordScore is a word with its importance (or weight) score.
type KeywordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// ImportanceResult is the trained outcome for one (category, polarity) key.
// Keywords are ordered by descending score. A result exists only when the
// bucket held at least the configured minimum of usable records.
type ImportanceResult struct {
	Category   string
	Polarity   Polarity
	Keywords   []KeywordScore
	R2         float64
	MAE        float64
	RMSE       float64
	SampleSize int
	TrainedAt  time.Time
}

// SectionImportanceRanking reports which categories contribute most to
// overall satisfaction among highly satisfied respondents. Importance values
// sum to 1 and SortedCategories is a permutation of the configured
// categories, most important first.
type SectionImportanceRanking struct {
	SortedCategories []string
	Importance       map[string]float64
	R2               float64
	MAE              float64
	TrainedAt        time.Time
}

// OverallKeywordSet is the aggregated top word list across all lacking
// buckets, ordered by descending aggregate score.
type OverallKeywordSet []KeywordScore
