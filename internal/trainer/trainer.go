// Package trainer fits one importance model per (category, polarity) bucket
// and extracts the words that drive that bucket's scores.
package trainer

import (
	"sort"
	"time"

	"insight/internal/config"
	"insight/internal/domain"
	"insight/internal/forest"
	"insight/internal/vectorizer"
)

// Bucket is the trained outcome for one (category, polarity) key. Result is
// the persisted view; Importances keeps the full noise-filtered importance
// map for cross-category deduplication within the same run.
type Bucket struct {
	Result      domain.ImportanceResult
	Importances map[string]float64
}

// Trainer trains subset-local models over pre-filtered record buckets.
type Trainer struct {
	norm       domain.Normalizer
	thresholds config.ThresholdConfig
	cfg        config.TrainerConfig
	topN       int
}

func New(norm domain.Normalizer, thresholds config.ThresholdConfig, cfg config.TrainerConfig, topN int) *Trainer {
	if topN <= 0 {
		topN = 5
	}
	return &Trainer{norm: norm, thresholds: thresholds, cfg: cfg, topN: topN}
}

// Train fits the model for one (category, polarity) key. It returns
// InsufficientDataError when the bucket is too small, VectorizationError
// when the subset yields no vocabulary, and TrainingError on a numerical
// failure; the caller omits the key on any of those.
func (t *Trainer) Train(category string, polarity domain.Polarity, records []domain.FeedbackRecord) (*Bucket, error) {
	texts, scores := t.bucket(category, polarity, records)
	if len(texts) < t.cfg.MinSamples {
		return nil, &domain.InsufficientDataError{
			Category: category,
			Polarity: polarity,
			Needed:   t.cfg.MinSamples,
			Got:      len(texts),
		}
	}

	// A fresh vectorizer per bucket keeps the vocabulary specific to the
	// subset.
	vec := vectorizer.New(vectorizer.Options{
		MaxFeatures: t.cfg.MaxFeatures,
		NgramMin:    1,
		NgramMax:    2,
		MinDocFreq:  t.cfg.MinDocFreq,
		Stopwords:   vectorizer.EnglishStopwords(),
	})
	if err := vec.Fit(texts); err != nil {
		return nil, &domain.VectorizationError{Category: category, Polarity: polarity, Err: err}
	}
	features := make([][]float64, len(texts))
	for i, text := range texts {
		row, err := vec.Transform(text)
		if err != nil {
			return nil, &domain.VectorizationError{Category: category, Polarity: polarity, Err: err}
		}
		features[i] = row
	}

	trainX, testX, trainY, testY := forest.SplitTrainTest(features, scores, t.cfg.TestFraction, t.cfg.Seed)
	model, err := forest.Train(trainX, trainY, forest.Config{
		Trees: t.cfg.Trees,
		Seed:  t.cfg.Seed,
	})
	if err != nil {
		return nil, &domain.TrainingError{Category: category, Polarity: polarity, Err: err}
	}
	eval := forest.Evaluate(testY, model.PredictAll(testX))

	importances := t.featureScores(vec, model)
	ranked := rankKeywords(importances)
	top := ranked
	if len(top) > t.topN {
		top = top[:t.topN]
	}
	return &Bucket{
		Result: domain.ImportanceResult{
			Category:   category,
			Polarity:   polarity,
			Keywords:   append([]domain.KeywordScore(nil), top...),
			R2:         eval.R2,
			MAE:        eval.MAE,
			RMSE:       eval.RMSE,
			SampleSize: len(texts),
			TrainedAt:  time.Now().UTC(),
		},
		Importances: importances,
	}, nil
}

// bucket selects the normalized texts and scores belonging to one
// (category, polarity) key, dropping records with empty normalized text.
func (t *Trainer) bucket(category string, polarity domain.Polarity, records []domain.FeedbackRecord) ([]string, []float64) {
	var texts []string
	var scores []float64
	for _, rec := range records {
		if !rec.Complete {
			continue
		}
		score, ok := rec.CategoryScores[category]
		if !ok {
			continue
		}
		switch polarity {
		case domain.PolarityStrength:
			if score < t.thresholds.StrengthMin {
				continue
			}
		case domain.PolarityLacking:
			if score >= t.thresholds.LackingMax {
				continue
			}
		default:
			continue
		}
		text := t.norm.NormalizeJoined(rec.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		scores = append(scores, score)
	}
	return texts, scores
}

// featureScores maps surviving features to importance scores. Features in
// the noise-word set are dropped. When the model never split (constant
// targets leave every importance at zero) the mean TF-IDF weight ranks the
// features instead, keeping output deterministic.
func (t *Trainer) featureScores(vec *vectorizer.Vectorizer, model *forest.Forest) map[string]float64 {
	names := vec.FeatureNames()
	importances := model.FeatureImportances()
	total := 0.0
	for _, v := range importances {
		total += v
	}
	if total == 0 {
		importances = vec.MeanWeights()
	}
	out := make(map[string]float64, len(names))
	for i, name := range names {
		if _, noisy := noiseWords[name]; noisy {
			continue
		}
		if importances[i] > 0 {
			out[name] = importances[i]
		}
	}
	return out
}

func rankKeywords(scores map[string]float64) []domain.KeywordScore {
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

// noiseWords are filler terms that rank highly in every bucket without
// describing it.
var noiseWords = map[string]struct{}{
	"feel": {}, "company": {}, "say": {}, "job": {}, "ive": {},
	"provided": {}, "there": {}, "work": {}, "employee": {}, "time": {},
	"good": {}, "great": {}, "well": {}, "need": {}, "make": {},
	"get": {}, "would": {}, "could": {}, "should": {},
}
