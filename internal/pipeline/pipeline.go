// Package pipeline sequences the full insight computation: sentiment
// recompute, per-category importance training, cross-category keyword
// deduplication, section ranking and atomic persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"insight/internal/config"
	"insight/internal/dedup"
	"insight/internal/domain"
	"insight/internal/ranker"
	"insight/internal/store"
	"insight/internal/trainer"
)

// StageError records one non-fatal stage failure as data.
type StageError struct {
	Stage    string
	Category string
	Polarity domain.Polarity
	Message  string
}

// RunSummary reports the outcome of one TrainAll invocation.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    int
	Trained    int
	Skipped    int
	Errors     []StageError
}

// Pipeline orchestrates every stage. All collaborators are injected; there
// is no process-wide state beyond the store contents.
type Pipeline struct {
	runMu sync.Mutex

	source  domain.RecordSource
	store   store.Store
	scorer  domain.SentimentScorer
	trainer *trainer.Trainer
	cfg     *config.AppConfig
	log     *slog.Logger
}

func New(source domain.RecordSource, st store.Store, scorer domain.SentimentScorer, tr *trainer.Trainer, cfg *config.AppConfig, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		source:  source,
		store:   st,
		scorer:  scorer,
		trainer: tr,
		cfg:     cfg,
		log:     log,
	}
}

// TrainAll runs the full pipeline under a run lock. Stage failures degrade
// to omitted results and are folded into the summary; only a source or
// persistence failure returns a non-nil error, in which case the previously
// committed result set stays authoritative.
func (p *Pipeline) TrainAll(ctx context.Context) (*RunSummary, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := p.log.With("run_id", summary.RunID)

	records, err := p.source.ListComplete(ctx)
	if err != nil {
		summary.FinishedAt = time.Now().UTC()
		return summary, fmt.Errorf("load records: %w", err)
	}
	summary.Records = len(records)
	log.Info("pipeline run started", "records", len(records))

	p.recomputeSentiment(ctx, records, summary, log)

	results, lackingImportances := p.trainBuckets(records, summary, log)

	// The refined list replaces the raw one even when empty: common and
	// ambiguous words must never reach a stored lacking result.
	refined := dedup.Refine(lackingImportances, p.cfg.Dedup)
	for i := range results {
		if results[i].Polarity != domain.PolarityLacking {
			continue
		}
		if keywords, ok := refined.Keywords[results[i].Category]; ok {
			results[i].Keywords = keywords
		}
	}

	ranking := p.rankSections(records, summary, log)

	if err := p.store.ReplaceDerived(ctx, results, ranking, refined.Overall); err != nil {
		summary.FinishedAt = time.Now().UTC()
		perr := &domain.PersistenceError{Op: "replace derived results", Err: err}
		log.Error("pipeline run failed", "error", perr)
		return summary, perr
	}

	summary.FinishedAt = time.Now().UTC()
	log.Info("pipeline run finished",
		"trained", summary.Trained,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors),
		"duration", summary.FinishedAt.Sub(summary.StartedAt))
	return summary, nil
}

// recomputeSentiment upserts a sentiment result for every record. The
// upsert is idempotent, so rerunning over unchanged records is a no-op in
// effect.
func (p *Pipeline) recomputeSentiment(ctx context.Context, records []domain.FeedbackRecord, summary *RunSummary, log *slog.Logger) {
	for _, rec := range records {
		result := p.scorer.Analyze(rec.Text)
		if err := p.store.UpsertSentiment(ctx, rec.ID, result); err != nil {
			summary.Errors = append(summary.Errors, StageError{
				Stage:   "sentiment",
				Message: "record " + rec.ID + ": " + err.Error(),
			})
			log.Warn("sentiment upsert failed", "record_id", rec.ID, "error", err)
		}
	}
}

// trainBuckets runs the importance trainer across all category x polarity
// keys, collecting the lacking importance maps for deduplication.
func (p *Pipeline) trainBuckets(records []domain.FeedbackRecord, summary *RunSummary, log *slog.Logger) ([]domain.ImportanceResult, map[string]map[string]float64) {
	var results []domain.ImportanceResult
	lacking := make(map[string]map[string]float64)

	for _, category := range p.cfg.Categories {
		for _, polarity := range []domain.Polarity{domain.PolarityStrength, domain.PolarityLacking} {
			bucket, err := p.trainer.Train(category, polarity, records)
			if err != nil {
				summary.Skipped++
				var insufficient *domain.InsufficientDataError
				if errors.As(err, &insufficient) {
					log.Debug("bucket skipped", "category", category, "polarity", polarity, "got", insufficient.Got)
					continue
				}
				summary.Errors = append(summary.Errors, StageError{
					Stage:    "train",
					Category: category,
					Polarity: polarity,
					Message:  err.Error(),
				})
				log.Warn("bucket training failed", "category", category, "polarity", polarity, "error", err)
				continue
			}
			summary.Trained++
			results = append(results, bucket.Result)
			if polarity == domain.PolarityLacking {
				lacking[category] = bucket.Importances
			}
			log.Info("bucket trained",
				"category", category,
				"polarity", polarity,
				"samples", bucket.Result.SampleSize,
				"r2", bucket.Result.R2)
		}
	}
	return results, lacking
}

func (p *Pipeline) rankSections(records []domain.FeedbackRecord, summary *RunSummary, log *slog.Logger) *domain.SectionImportanceRanking {
	ranking, err := ranker.Rank(records, ranker.FromApp(p.cfg))
	if err != nil {
		summary.Skipped++
		var insufficient *domain.InsufficientDataError
		if !errors.As(err, &insufficient) {
			summary.Errors = append(summary.Errors, StageError{
				Stage:   "rank",
				Message: err.Error(),
			})
		}
		log.Warn("section ranking skipped", "error", err)
		return nil
	}
	summary.Trained++
	log.Info("section ranking trained", "top", ranking.SortedCategories[0], "r2", ranking.R2)
	return ranking
}

// Keywords returns the stored importance result for one (category,
// polarity) key, or store.ErrNotFound when the key was never trained.
func (p *Pipeline) Keywords(ctx context.Context, category string, polarity domain.Polarity) (*domain.ImportanceResult, error) {
	return p.store.GetLatest(ctx, category, polarity)
}

// OverallKeywords returns the stored aggregate keyword set.
func (p *Pipeline) OverallKeywords(ctx context.Context) (domain.OverallKeywordSet, error) {
	return p.store.GetOverallKeywords(ctx)
}

// SectionRanking returns the stored category ranking.
func (p *Pipeline) SectionRanking(ctx context.Context) (*domain.SectionImportanceRanking, error) {
	return p.store.GetOverallRanking(ctx)
}

// AnalyzeSentiment scores one text without touching stored results.
func (p *Pipeline) AnalyzeSentiment(text string) domain.SentimentResult {
	return p.scorer.Analyze(text)
}

// Categories exposes the configured category list in display order.
func (p *Pipeline) Categories() []string {
	return p.cfg.Categories
}
