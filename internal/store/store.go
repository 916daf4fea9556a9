// Package store defines durable, versioned storage for derived results.
package store

import (
	"context"
	"errors"

	"insight/internal/domain"
)

// ErrNotFound is returned when no result exists for a key. Absence is
// distinct from an empty-but-present result.
var ErrNotFound = errors.New("no stored result")

// Store persists every derived result. ReplaceDerived must be atomic:
// readers observe either the previous or the new result set, never a mix,
// and a crashed run leaves the previous set untouched.
type Store interface {
	ReplaceDerived(ctx context.Context, results []domain.ImportanceResult, ranking *domain.SectionImportanceRanking, overall domain.OverallKeywordSet) error
	GetLatest(ctx context.Context, category string, polarity domain.Polarity) (*domain.ImportanceResult, error)
	GetOverallRanking(ctx context.Context) (*domain.SectionImportanceRanking, error)
	GetOverallKeywords(ctx context.Context) (domain.OverallKeywordSet, error)
	UpsertSentiment(ctx context.Context, recordID string, result domain.SentimentResult) error
	GetSentiment(ctx context.Context, recordID string) (*domain.SentimentResult, error)
	Close() error
}
