// Package ranker identifies which categories contribute most to overall
// satisfaction among highly satisfied respondents.
package ranker

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"insight/internal/config"
	"insight/internal/domain"
	"insight/internal/forest"
)

const defaultCategoryMean = 3.0

// Config controls the section-importance model.
type Config struct {
	Categories   []string
	MinOverall   float64 // minimum mean category score to qualify
	MinSamples   int
	Trees        int
	Seed         int64
	TestFraction float64
}

// FromApp builds a ranker Config out of the application configuration.
func FromApp(cfg *config.AppConfig) Config {
	return Config{
		Categories:   cfg.Categories,
		MinOverall:   cfg.Thresholds.StrengthMin,
		MinSamples:   cfg.Trainer.MinSamples,
		Trees:        cfg.Trainer.Trees,
		Seed:         cfg.Trainer.Seed,
		TestFraction: cfg.Trainer.TestFraction,
	}
}

// Rank trains a regression ensemble predicting a record's overall rating
// (mean of its available category scores) from the per-category scores, and
// turns the model's feature importances into a category ranking. Records
// qualify when their mean score is at least MinOverall; a missing category
// is filled with the qualifying corpus's mean for that category.
func Rank(records []domain.FeedbackRecord, cfg Config) (*domain.SectionImportanceRanking, error) {
	qualifying := filterQualifying(records, cfg)
	if len(qualifying) < cfg.MinSamples {
		return nil, &domain.InsufficientDataError{
			Category: "overall",
			Needed:   cfg.MinSamples,
			Got:      len(qualifying),
		}
	}

	means := categoryMeans(qualifying, cfg.Categories)
	features := make([][]float64, 0, len(qualifying))
	targets := make([]float64, 0, len(qualifying))
	for _, rec := range qualifying {
		row := make([]float64, len(cfg.Categories))
		for i, cat := range cfg.Categories {
			if score, ok := rec.CategoryScores[cat]; ok {
				row[i] = score
			} else {
				row[i] = means[cat]
			}
		}
		features = append(features, row)
		targets = append(targets, overallRating(rec, cfg.Categories))
	}

	trainX, testX, trainY, testY := forest.SplitTrainTest(features, targets, cfg.TestFraction, cfg.Seed)
	model, err := forest.Train(trainX, trainY, forest.Config{Trees: cfg.Trees, Seed: cfg.Seed})
	if err != nil {
		return nil, &domain.TrainingError{Category: "overall", Err: err}
	}
	eval := forest.Evaluate(testY, model.PredictAll(testX))

	importance := normalizedImportance(model.FeatureImportances(), cfg.Categories)
	sorted := append([]string(nil), cfg.Categories...)
	sort.Slice(sorted, func(i, j int) bool {
		if importance[sorted[i]] != importance[sorted[j]] {
			return importance[sorted[i]] > importance[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})

	return &domain.SectionImportanceRanking{
		SortedCategories: sorted,
		Importance:       importance,
		R2:               eval.R2,
		MAE:              eval.MAE,
		TrainedAt:        time.Now().UTC(),
	}, nil
}

func filterQualifying(records []domain.FeedbackRecord, cfg Config) []domain.FeedbackRecord {
	var out []domain.FeedbackRecord
	for _, rec := range records {
		if !rec.Complete || len(rec.CategoryScores) == 0 {
			continue
		}
		if overallRating(rec, cfg.Categories) >= cfg.MinOverall {
			out = append(out, rec)
		}
	}
	return out
}

// overallRating is the mean of the record's available configured category
// scores.
func overallRating(rec domain.FeedbackRecord, categories []string) float64 {
	var scores []float64
	for _, cat := range categories {
		if score, ok := rec.CategoryScores[cat]; ok {
			scores = append(scores, score)
		}
	}
	if len(scores) == 0 {
		return 0
	}
	return stat.Mean(scores, nil)
}

func categoryMeans(records []domain.FeedbackRecord, categories []string) map[string]float64 {
	means := make(map[string]float64, len(categories))
	for _, cat := range categories {
		var scores []float64
		for _, rec := range records {
			if score, ok := rec.CategoryScores[cat]; ok {
				scores = append(scores, score)
			}
		}
		if len(scores) == 0 {
			means[cat] = defaultCategoryMean
			continue
		}
		means[cat] = stat.Mean(scores, nil)
	}
	return means
}

// normalizedImportance maps categories to importances summing to 1. A model
// that never split (constant targets) yields a uniform distribution so the
// ranking stays a valid permutation.
func normalizedImportance(importances []float64, categories []string) map[string]float64 {
	total := 0.0
	for _, v := range importances {
		total += v
	}
	out := make(map[string]float64, len(categories))
	for i, cat := range categories {
		if total > 0 {
			out[cat] = importances[i] / total
		} else {
			out[cat] = 1.0 / float64(len(categories))
		}
	}
	return out
}
